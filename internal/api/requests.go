package api

import (
	"strings"

	"github.com/dmitrymomot/postbox/pkg/validator"
)

// Field limits, in characters.
const (
	MaxNameLength    = 100
	MaxSubjectLength = 200
	MaxMessageLength = 2000
)

// User-facing validation messages.
const (
	MsgEmailRequired  = "Email is required"
	MsgEmailInvalid   = "Please provide a valid email address"
	MsgFieldsRequired = "All fields are required"
	MsgNameTooLong    = "Name must be less than 100 characters"
	MsgSubjectTooLong = "Subject must be less than 200 characters"
	MsgMessageTooLong = "Message must be less than 2000 characters"
)

// SubscribeRequest is the body of POST /api/subscribe.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Normalize trims surrounding whitespace from the address.
func (r *SubscribeRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Validate returns validator.ValidationErrors, or nil.
func (r *SubscribeRequest) Validate() error {
	errs := validator.Validate(
		validator.Required("email", r.Email, MsgEmailRequired),
		validator.Email("email", r.Email, MsgEmailInvalid),
	)
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

// ContactRequest is the body of POST /api/send-email.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from the address. Other fields are
// kept as typed.
func (r *ContactRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks lengths before presence, so an oversized field is reported
// even when another field is missing.
func (r *ContactRequest) Validate() error {
	errs := validator.Validate(
		validator.MaxLength("name", r.Name, MaxNameLength, MsgNameTooLong),
		validator.MaxLength("subject", r.Subject, MaxSubjectLength, MsgSubjectTooLong),
		validator.MaxLength("message", r.Message, MaxMessageLength, MsgMessageTooLong),
		validator.Required("name", r.Name, MsgFieldsRequired),
		validator.Required("email", r.Email, MsgFieldsRequired),
		validator.Required("subject", r.Subject, MsgFieldsRequired),
		validator.Required("message", r.Message, MsgFieldsRequired),
		validator.Email("email", r.Email, MsgEmailInvalid),
	)
	if errs.IsEmpty() {
		return nil
	}
	return errs
}
