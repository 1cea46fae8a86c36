package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/postbox/internal/web"
	"github.com/dmitrymomot/postbox/middlewares"
	"github.com/dmitrymomot/postbox/pkg/mailer"
	"github.com/dmitrymomot/postbox/pkg/validator"
)

// Client-safe failure messages.
const (
	MsgInternal            = "Internal server error"
	MsgNotFound            = "Not found"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgInvalidBody         = "Invalid request body"
	MsgBodyTooLarge        = "Request body too large"
	MsgUnsupportedMedia    = "Content-Type must be application/json"
	MsgTimeout             = "Request timed out, please try again later."
	MsgProviderAuth        = "Email service configuration error. Please contact support."
	MsgProviderRequest     = "Invalid email request. Please check your input and try again."
	MsgProviderDomain      = "Email domain configuration error. Please contact support."
	MsgProviderUnknown     = "Failed to send email. Please try again later."
	MsgSubscriptionFailure = "Failed to process subscription. Please try again later."
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string                     `json:"error"`
	Errors  validator.ValidationErrors `json:"errors,omitempty"`
	Success bool                       `json:"success"`
}

// ProviderMessage maps a send failure to the message shown to clients.
func ProviderMessage(err error) string {
	switch mailer.Classify(err) {
	case mailer.KindAuth:
		return MsgProviderAuth
	case mailer.KindInvalidRequest:
		return MsgProviderRequest
	case mailer.KindDomain:
		return MsgProviderDomain
	default:
		return MsgProviderUnknown
	}
}

// ErrorHandler renders handler and middleware errors as JSON. Anything it
// does not recognize becomes a 500 with a generic message.
func ErrorHandler(c web.Context, err error) error {
	if ve, ok := validator.AsValidationErrors(err); ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.First(), Errors: ve})
	}

	code, message := http.StatusInternalServerError, MsgInternal

	switch he, isHTTP := web.AsHTTPError(err); {
	case isHTTP:
		code, message = he.Code, he.Message
	case errors.Is(err, web.ErrEmptyBody), errors.Is(err, web.ErrInvalidJSON):
		code, message = http.StatusBadRequest, MsgInvalidBody
	case errors.Is(err, web.ErrBodyTooLarge):
		code, message = http.StatusRequestEntityTooLarge, MsgBodyTooLarge
	case errors.Is(err, web.ErrUnsupportedMedia):
		code, message = http.StatusUnsupportedMediaType, MsgUnsupportedMedia
	default:
		if _, ok := middlewares.AsTimeoutError(err); ok {
			code, message = http.StatusServiceUnavailable, MsgTimeout
		}
	}

	attrs := []any{slog.Int("status", code), slog.String("error", err.Error())}
	if _, ok := middlewares.AsPanicError(err); ok {
		attrs = append(attrs, slog.Bool("panic", true))
	}
	if code >= http.StatusInternalServerError {
		c.LogError("request failed", attrs...)
	} else {
		c.LogDebug("request rejected", attrs...)
	}

	return c.JSON(code, ErrorResponse{Error: message})
}

// NotFound responds 404 for unknown routes.
func NotFound(web.Context) error {
	return web.ErrNotFound(MsgNotFound)
}

// MethodNotAllowed responds 405 for known routes hit with the wrong method.
func MethodNotAllowed(web.Context) error {
	return web.ErrMethodNotAllowed(MsgMethodNotAllowed)
}

// bind decodes the JSON body into v. An empty body decodes as an empty
// object so that the field checks report what is missing.
func bind(c web.Context, v any) error {
	if err := c.BindJSON(v); err != nil && !errors.Is(err, web.ErrEmptyBody) {
		return err
	}
	return nil
}
