package resend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/postbox/pkg/mailer"
)

const providerName = "resend"

// Sender implements mailer.Sender and mailer.StatusChecker using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a Resend sender.
func New(cfg Config) *Sender {
	return NewWithClient(resend.NewClient(cfg.APIKey), cfg)
}

// NewWithClient creates a sender around an existing client, e.g. one with a
// custom BaseURL.
func NewWithClient(client *resend.Client, cfg Config) *Sender {
	return &Sender{client: client, config: cfg}
}

// Send submits the email. Resend accepts it asynchronously, so the returned
// status is queued.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (*mailer.Result, error) {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}
	if from == "" {
		return nil, mailer.ErrNoSender
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	}
	if len(email.Tags) > 0 {
		req.Tags = convertTags(email.Tags)
	}

	// The client omits the Idempotency-Key header when the key is empty.
	opts := &resend.SendEmailOptions{IdempotencyKey: email.IdempotencyKey}

	sent, err := s.client.Emails.SendWithOptions(ctx, req, opts)
	if err != nil {
		return nil, normalizeError(err)
	}

	return &mailer.Result{ID: sent.Id, Status: mailer.StatusQueued}, nil
}

// Status returns the last delivery event Resend recorded for the message.
func (s *Sender) Status(ctx context.Context, id string) (mailer.Status, error) {
	email, err := s.client.Emails.GetWithContext(ctx, id)
	if err != nil {
		return "", normalizeError(err)
	}
	if email.LastEvent == "" {
		return mailer.StatusQueued, nil
	}
	return mailer.Status(email.LastEvent), nil
}

// normalizeError maps a Resend client error to *mailer.ProviderError.
// The client only exposes the API message, so classification is by text.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.TrimPrefix(err.Error(), "[ERROR]: ")
	pe := &mailer.ProviderError{
		Err:      err,
		Provider: providerName,
		Message:  msg,
	}

	lower := strings.ToLower(msg)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case strings.Contains(lower, "api key"), strings.Contains(lower, "unauthorized"):
		pe.Code = mailer.CodeUnauthorized
	case strings.Contains(lower, "domain"):
		// left unclassified so callers can detect domain configuration problems
	case strings.Contains(lower, "invalid"),
		strings.Contains(lower, "validation"),
		strings.Contains(lower, "missing"),
		strings.Contains(lower, "required"):
		pe.Code = mailer.CodeInvalidRequest
	}

	return pe
}

func convertTags(tags mailer.Tags) []resend.Tag {
	result := make([]resend.Tag, 0, len(tags))
	for name, value := range tags {
		result = append(result, resend.Tag{Name: name, Value: tagValue(value)})
	}
	return result
}

// tagValue renders a tag value as a string. Presence-only tags become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

var (
	_ mailer.Sender        = (*Sender)(nil)
	_ mailer.StatusChecker = (*Sender)(nil)
)
