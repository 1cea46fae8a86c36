// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/postbox/pkg/logger"
	"github.com/dmitrymomot/postbox/pkg/mailer"
	"github.com/dmitrymomot/postbox/pkg/mailer/resend"
	"github.com/dmitrymomot/postbox/pkg/mailer/ses"
	"github.com/dmitrymomot/postbox/pkg/validator"
)

// Email providers.
const (
	ProviderResend = "resend"
	ProviderSES    = "ses"
	ProviderLog    = "log"
)

var (
	ErrParse            = errors.New("config: failed to parse environment")
	ErrInvalidPort      = errors.New("config: PORT must be between 1 and 65535")
	ErrInvalidProvider  = errors.New("config: EMAIL_PROVIDER must be one of resend, ses, log")
	ErrMissingResendKey = errors.New("config: RESEND_API_KEY is required for the resend provider")
	ErrMissingAWSRegion = errors.New("config: AWS_REGION is required for the ses provider")
	ErrPartialAWSKeys   = errors.New("config: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	ErrInvalidAdmin     = errors.New("config: ADMIN_EMAIL must be a valid email address")
)

// Config is read once at startup and handed to components explicitly.
type Config struct {
	Port            int           `env:"PORT" envDefault:"3001"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	TrustRequestID  bool          `env:"TRUST_REQUEST_ID"`

	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"resend"`

	// Sender addresses may carry a display name: "Site <hello@example.com>".
	ContactSender      string `env:"CONTACT_SENDER_ADDRESS,required,notEmpty"`
	SubscriptionSender string `env:"SUBSCRIPTION_SENDER_ADDRESS,required,notEmpty"`
	AdminEmail         string `env:"ADMIN_EMAIL,required,notEmpty"`
	SiteName           string `env:"SITE_NAME" envDefault:"Newsletter"`
	ContactSendReceipt bool   `env:"CONTACT_SEND_RECEIPT" envDefault:"false"`

	RateLimitRequests   int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow     time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitTrustProxy bool          `env:"RATE_LIMIT_TRUST_PROXY"`

	// Empty keeps rate-limit counters and the dedupe cache in memory.
	RedisURL string `env:"REDIS_URL"`

	Logger logger.Config
	Mailer mailer.Config
	Resend resend.Config
	SES    ses.Config
}

// Load reads the optional dotenv files, then the process environment.
// Missing files are skipped; variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	return finish(&cfg)
}

// Parse reads the configuration from the given variables only.
func Parse(environ map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-field rules env tags cannot express. All
// violations are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}

	switch c.EmailProvider {
	case ProviderResend:
		if c.Resend.APIKey == "" {
			errs = append(errs, ErrMissingResendKey)
		}
	case ProviderSES:
		if c.SES.Region == "" {
			errs = append(errs, ErrMissingAWSRegion)
		}
		if (c.SES.AccessKeyID == "") != (c.SES.SecretAccessKey == "") {
			errs = append(errs, ErrPartialAWSKeys)
		}
	case ProviderLog:
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidProvider, c.EmailProvider))
	}

	if !validator.IsEmail(c.AdminEmail) {
		errs = append(errs, ErrInvalidAdmin)
	}

	return errors.Join(errs...)
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
