package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/postbox/internal/notify"
	"github.com/dmitrymomot/postbox/internal/web"
	"github.com/dmitrymomot/postbox/pkg/mailer"
)

// ContactSender delivers contact form messages. *notify.Service implements it.
type ContactSender interface {
	Contact(ctx context.Context, msg notify.ContactMessage) (*mailer.Result, error)
}

// ContactResponse is the body of a successful contact submission.
type ContactResponse struct {
	Message   string        `json:"message"`
	MessageID string        `json:"messageId"`
	Status    mailer.Status `json:"status"`
	Success   bool          `json:"success"`
}

// ContactHandler serves POST /api/send-email.
type ContactHandler struct {
	sender ContactSender
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(sender ContactSender) *ContactHandler {
	return &ContactHandler{sender: sender}
}

// Routes implements web.Handler.
func (h *ContactHandler) Routes(r web.Router) {
	r.POST("/api/send-email", h.send)
}

func (h *ContactHandler) send(c web.Context) error {
	var req ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	result, err := h.sender.Contact(c.Context(), notify.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		c.LogError("contact email failed",
			slog.String("kind", mailer.Classify(err).String()),
			slog.String("error", err.Error()),
		)
		return web.ErrInternal(ProviderMessage(err), web.WithError(err))
	}

	c.LogInfo("contact email sent",
		slog.String("message_id", result.ID),
		slog.String("status", string(result.Status)),
	)

	return c.JSON(http.StatusOK, ContactResponse{
		Success:   true,
		Message:   "Email sent successfully",
		MessageID: result.ID,
		Status:    result.Status,
	})
}
