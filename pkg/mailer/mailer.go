package mailer

import (
	"context"
	"errors"
)

// Mailer renders a template and dispatches the resulting email.
type Mailer struct {
	dispatcher *Dispatcher
	renderer   *Renderer
	config     Config
}

// New creates a Mailer.
func New(dispatcher *Dispatcher, renderer *Renderer, cfg Config) *Mailer {
	if cfg.DefaultLayout == "" {
		cfg.DefaultLayout = "base.html"
	}
	if cfg.FallbackSubject == "" {
		cfg.FallbackSubject = "Notification"
	}
	return &Mailer{
		dispatcher: dispatcher,
		renderer:   renderer,
		config:     cfg,
	}
}

// SendParams describes one templated email.
type SendParams struct {
	To       string // single recipient
	Template string // template filename, e.g. "welcome.md"
	Data     any    // raw values for the subject and the plain-text body

	// HTMLData feeds the HTML body. Values already escaped by the caller must
	// be template.HTML; plain strings are escaped by html/template. Nil means
	// Data.
	HTMLData any

	// Optional overrides
	Subject        string // overrides the template subject
	Layout         string // overrides the default layout
	From           string // overrides the sender default
	ReplyTo        string
	IdempotencyKey string
	Tags           Tags
}

// Send renders params.Template and dispatches it to params.To.
// Subject resolution: params.Subject, then template frontmatter, then the
// configured fallback.
func (m *Mailer) Send(ctx context.Context, params SendParams) (*Result, error) {
	email, err := m.Build(params)
	if err != nil {
		return nil, err
	}
	return m.dispatcher.Send(ctx, email)
}

// Build renders params into an Email without sending it.
func (m *Mailer) Build(params SendParams) (*Email, error) {
	if params.To == "" {
		return nil, ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	rendered, err := m.renderer.Render(layout, params.Template, params.Data, params.HTMLData)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		subject = rendered.Subject
	}
	if subject == "" {
		subject = m.config.FallbackSubject
	}

	tags := params.Tags
	if len(tags) == 0 && len(rendered.Metadata.Tags) > 0 {
		tags = SimpleTags(rendered.Metadata.Tags...)
	}

	return &Email{
		To:             []string{params.To},
		From:           params.From,
		ReplyTo:        params.ReplyTo,
		Subject:        subject,
		HTML:           rendered.HTML,
		Text:           rendered.Text,
		IdempotencyKey: params.IdempotencyKey,
		Tags:           tags,
	}, nil
}

// SendRaw dispatches a pre-built email.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) (*Result, error) {
	return m.dispatcher.Send(ctx, email)
}
