package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/postbox/internal/notify"
	"github.com/dmitrymomot/postbox/internal/web"
	"github.com/dmitrymomot/postbox/pkg/mailer"
)

// Subscriber delivers subscription emails. *notify.Service implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) (*notify.SubscriptionResult, error)
}

// SubscribeResponse is the body of a successful subscription.
type SubscribeResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// SubscriptionHandler serves POST /api/subscribe.
type SubscriptionHandler struct {
	subscriber Subscriber
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(subscriber Subscriber) *SubscriptionHandler {
	return &SubscriptionHandler{subscriber: subscriber}
}

// Routes implements web.Handler.
func (h *SubscriptionHandler) Routes(r web.Router) {
	r.POST("/api/subscribe", h.subscribe)
}

func (h *SubscriptionHandler) subscribe(c web.Context) error {
	var req SubscribeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	result, err := h.subscriber.Subscribe(c.Context(), req.Email)
	if err != nil {
		attrs := []any{
			slog.String("kind", mailer.Classify(err).String()),
			slog.String("error", err.Error()),
		}
		if result != nil && result.Welcome != nil {
			attrs = append(attrs, slog.String("welcome_message_id", result.Welcome.ID))
		}
		c.LogError("subscription email failed", attrs...)
		return web.ErrInternal(MsgSubscriptionFailure, web.WithError(err))
	}

	c.LogInfo("subscription processed",
		slog.String("welcome_message_id", result.Welcome.ID),
		slog.String("admin_message_id", result.Admin.ID),
	)

	return c.JSON(http.StatusOK, SubscribeResponse{
		Success: true,
		Message: "Successfully subscribed to the newsletter",
	})
}
