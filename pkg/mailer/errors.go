package mailer

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSender indicates neither the email nor the sender defines a From address.
	ErrNoSender = errors.New("email must have a sender address")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates neither HTML nor text content was provided.
	ErrNoContent = errors.New("email must have content")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrSendFailed indicates the provider rejected the send.
	ErrSendFailed = errors.New("failed to send email")

	// ErrDeliveryPending indicates the send was accepted but did not reach a
	// terminal status within the poll budget.
	ErrDeliveryPending = errors.New("email delivery status still pending")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)

// Normalized provider error codes.
const (
	CodeUnauthorized   = "Unauthorized"
	CodeInvalidRequest = "InvalidRequest"
)

// ProviderError is a failure reported by an email provider, normalized so
// callers can classify it without knowing the provider.
type ProviderError struct {
	Err        error  // native provider error
	Provider   string // "resend", "ses", ...
	Code       string // CodeUnauthorized, CodeInvalidRequest or a provider-specific code
	Message    string // provider message, never shown to end users
	StatusCode int    // HTTP status reported by the provider, 0 if unknown
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Code != "" {
		fmt.Fprintf(&b, " (code=%s)", e.Code)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status=%d)", e.StatusCode)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorKind groups provider failures by what the operator has to do about them.
type ErrorKind int

const (
	// KindUnknown is any failure not matched by another kind.
	KindUnknown ErrorKind = iota
	// KindAuth means the provider rejected the credentials.
	KindAuth
	// KindInvalidRequest means the provider rejected the message itself.
	KindInvalidRequest
	// KindDomain means the sending domain is not configured or verified.
	KindDomain
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindInvalidRequest:
		return "invalid_request"
	case KindDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// Classify maps err to an ErrorKind. Checks run in order: credentials,
// malformed request, domain configuration.
func Classify(err error) ErrorKind {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return KindUnknown
	}

	switch {
	case pe.Code == CodeUnauthorized:
		return KindAuth
	case pe.Code == CodeInvalidRequest || pe.StatusCode == http.StatusBadRequest:
		return KindInvalidRequest
	case strings.Contains(strings.ToLower(pe.Message), "domain"):
		return KindDomain
	default:
		return KindUnknown
	}
}
