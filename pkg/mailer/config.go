package mailer

import "time"

// Config holds mailer configuration.
// Embed it in the app config for env parsing with caarlos0/env.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`

	PollInterval time.Duration `env:"DISPATCH_POLL_INTERVAL" envDefault:"1s"`
	PollAttempts int           `env:"DISPATCH_POLL_ATTEMPTS" envDefault:"30"`
	DedupeTTL    time.Duration `env:"DISPATCH_DEDUPE_TTL" envDefault:"24h"`
}

// DispatcherOptions turns the polling and dedupe settings into options for
// NewDispatcher. The dedupe cache itself is supplied separately.
func (c Config) DispatcherOptions() []DispatcherOption {
	return []DispatcherOption{WithPolling(c.PollInterval, c.PollAttempts)}
}
