package mailer

import (
	"fmt"
	"slices"
)

// Tags represents email tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs (using string values).
// Provider adapters convert them to their native format.
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a fully-prepared message. It is built once per send and must not
// be modified after it is handed to a Dispatcher.
type Email struct {
	Tags           Tags     // Provider-specific tags/categories
	From           string   // Sender address; falls back to the sender's default
	Subject        string   // Email subject
	HTML           string   // HTML body content
	Text           string   // Plain text alternative
	ReplyTo        string   // Reply-to address
	IdempotencyKey string   // Deduplicates repeated sends of the same logical message
	To             []string // Recipients, in order (at least one required)
}

// Validate checks the fields every provider requires.
func (e *Email) Validate() error {
	switch {
	case len(e.To) == 0 || slices.Contains(e.To, ""):
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "" && e.Text == "":
		return ErrNoContent
	}
	return nil
}

// Status is a provider-reported delivery state.
type Status string

// Delivery states. Names follow the provider event vocabulary.
const (
	StatusQueued          Status = "queued"
	StatusScheduled       Status = "scheduled"
	StatusDeliveryDelayed Status = "delivery_delayed"
	StatusSent            Status = "sent"
	StatusDelivered       Status = "delivered"
	StatusOpened          Status = "opened"
	StatusClicked         Status = "clicked"
	StatusBounced         Status = "bounced"
	StatusComplained      Status = "complained"
	StatusFailed          Status = "failed"
	StatusCanceled        Status = "canceled"
)

// IsTerminal reports whether no further state change is expected for the send attempt.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSent, StatusDelivered, StatusOpened, StatusClicked,
		StatusBounced, StatusComplained, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Result is the outcome of a dispatched email.
type Result struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}
