// Package notify composes and sends the service's fixed notification emails:
// the subscriber welcome, the admin notices and the optional contact receipt.
package notify

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postbox/pkg/mailer"
	"github.com/dmitrymomot/postbox/pkg/sanitizer"
)

// Template names.
const (
	TemplateSubscriberWelcome  = "subscriber_welcome.md"
	TemplateAdminNewSubscriber = "admin_new_subscriber.md"
	TemplateContactNotice      = "contact_notice.md"
	TemplateContactReceipt     = "contact_receipt.md"
)

//go:embed templates
var embedded embed.FS

// Templates returns the embedded templates rooted at the template directory,
// ready for mailer.NewRenderer.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Sender sends one templated email. *mailer.Mailer implements it.
type Sender interface {
	Send(ctx context.Context, params mailer.SendParams) (*mailer.Result, error)
}

// Config holds addresses and branding.
type Config struct {
	SiteName           string
	AdminEmail         string
	ContactSender      string
	SubscriptionSender string
	// SendReceipt also mails an acknowledgement to contact form submitters.
	SendReceipt bool
}

// Service sends notifications for subscriptions and contact messages.
type Service struct {
	sender Sender
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service.
func New(sender Sender, cfg Config, opts ...Option) *Service {
	s := &Service{
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubscriptionResult holds the outcome of both subscription emails.
type SubscriptionResult struct {
	Welcome *mailer.Result
	Admin   *mailer.Result
}

// Subscribe sends the welcome email to the subscriber, then the notice to the
// admin. Each email carries its own idempotency key derived from the address
// and the UTC date, so a retried request does not mail the subscriber twice
// when only the admin notice failed. Rendered content depends only on the
// key inputs: a same-day retry produces the same payload for the same key.
func (s *Service) Subscribe(ctx context.Context, email string) (*SubscriptionResult, error) {
	today := s.today()
	day := today.Format(time.DateOnly)

	fields := map[string]string{
		"Email":    email,
		"SiteName": s.cfg.SiteName,
		"Date":     today.Format(dateFormat),
	}
	data, htmlData := templateData(fields)
	data["Year"] = today.Year()
	htmlData["Year"] = today.Year()

	welcome, err := s.sender.Send(ctx, mailer.SendParams{
		To:             email,
		From:           s.cfg.SubscriptionSender,
		Template:       TemplateSubscriberWelcome,
		Data:           data,
		HTMLData:       htmlData,
		IdempotencyKey: idempotencyKey("subscriber-welcome", email, day),
	})
	if err != nil {
		return nil, fmt.Errorf("notify: send welcome email: %w", err)
	}

	admin, err := s.sender.Send(ctx, mailer.SendParams{
		To:             s.cfg.AdminEmail,
		From:           s.cfg.SubscriptionSender,
		ReplyTo:        email,
		Template:       TemplateAdminNewSubscriber,
		Data:           data,
		HTMLData:       htmlData,
		IdempotencyKey: idempotencyKey("admin-new-subscriber", email, day),
	})
	if err != nil {
		return &SubscriptionResult{Welcome: welcome}, fmt.Errorf("notify: send subscriber notice: %w", err)
	}

	return &SubscriptionResult{Welcome: welcome, Admin: admin}, nil
}

// ContactMessage is a validated contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Contact sends the message to the admin with Reply-To set to the submitter.
// When receipts are enabled the submitter gets an acknowledgement; a failed
// receipt is logged and does not fail the call.
func (s *Service) Contact(ctx context.Context, msg ContactMessage) (*mailer.Result, error) {
	today := s.today()

	data, htmlData := templateData(map[string]string{
		"Name":     msg.Name,
		"Email":    msg.Email,
		"Subject":  msg.Subject,
		"Message":  msg.Message,
		"SiteName": s.cfg.SiteName,
		"Date":     today.Format(dateFormat),
	})
	htmlData["Message"] = template.HTML(lineBreaks(sanitizer.EscapeHTML(msg.Message)))

	key := idempotencyKey("contact-notice", msg.Email, msg.Name, msg.Subject, msg.Message, today.Format(time.DateOnly))

	result, err := s.sender.Send(ctx, mailer.SendParams{
		To:             s.cfg.AdminEmail,
		From:           s.cfg.ContactSender,
		ReplyTo:        msg.Email,
		Template:       TemplateContactNotice,
		Data:           data,
		HTMLData:       htmlData,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, fmt.Errorf("notify: send contact notice: %w", err)
	}

	if s.cfg.SendReceipt {
		_, err := s.sender.Send(ctx, mailer.SendParams{
			To:             msg.Email,
			From:           s.cfg.ContactSender,
			Template:       TemplateContactReceipt,
			Data:           data,
			HTMLData:       htmlData,
			IdempotencyKey: idempotencyKey("contact-receipt", key),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "contact receipt not sent",
				slog.String("message_id", result.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}

// dateFormat renders the day an email belongs to. It has no time of day, so
// the payload stays stable for the lifetime of an idempotency key.
const dateFormat = "Monday, 02 Jan 2006 (MST)"

// today is the current UTC day at midnight.
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// templateData returns the raw values for subject and text bodies and the
// escaped values for HTML bodies. Every value is escaped exactly once.
func templateData(fields map[string]string) (data, htmlData map[string]any) {
	data = make(map[string]any, len(fields))
	for k, v := range fields {
		data[k] = v
	}
	htmlData = make(map[string]any, len(fields))
	for k, v := range sanitizer.EscapeStrings(fields) {
		htmlData[k] = template.HTML(v)
	}
	return data, htmlData
}

func lineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>\n")
}

var keyNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("postbox.notify"))

// idempotencyKey is a UUIDv5 over the kind and parts.
func idempotencyKey(kind string, parts ...string) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteByte(0)
		b.WriteString(p)
	}
	return uuid.NewSHA1(keyNamespace, []byte(b.String())).String()
}
