package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/postbox/pkg/cache"
	"github.com/dmitrymomot/postbox/pkg/logger"
)

const (
	defaultPollInterval = time.Second
	defaultPollAttempts = 30
	defaultDedupeTTL    = 24 * time.Hour
)

// Dispatcher hands emails to a Sender and waits for a terminal delivery status.
//
// Submission is followed by a bounded poll loop when the sender implements
// StatusChecker. Failed sends are never retried.
type Dispatcher struct {
	sender       Sender
	logger       *slog.Logger
	dedupe       cache.Cache[Result]
	pollInterval time.Duration
	pollAttempts int
	dedupeTTL    time.Duration
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPolling sets the status poll interval and the maximum number of checks.
func WithPolling(interval time.Duration, attempts int) DispatcherOption {
	return func(d *Dispatcher) {
		if interval > 0 {
			d.pollInterval = interval
		}
		if attempts > 0 {
			d.pollAttempts = attempts
		}
	}
}

// WithDedupe stores successful results under Email.IdempotencyKey for ttl.
// A repeated send with the same key returns the stored result without
// contacting the provider.
func WithDedupe(c cache.Cache[Result], ttl time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.dedupe = c
		if ttl > 0 {
			d.dedupeTTL = ttl
		}
	}
}

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a Dispatcher for the given sender.
func NewDispatcher(sender Sender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender:       sender,
		logger:       logger.NewNope(),
		pollInterval: defaultPollInterval,
		pollAttempts: defaultPollAttempts,
		dedupeTTL:    defaultDedupeTTL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send submits the email and blocks until the provider reports a terminal
// status, the poll budget runs out, or ctx is done.
func (d *Dispatcher) Send(ctx context.Context, email *Email) (*Result, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}

	if email.IdempotencyKey == "" || d.dedupe == nil {
		return d.dispatch(ctx, email)
	}

	res, err := cache.GetOrSet(ctx, d.dedupe, email.IdempotencyKey,
		func(ctx context.Context) (Result, time.Duration, error) {
			r, err := d.dispatch(ctx, email)
			if err != nil {
				return Result{}, 0, err
			}
			return *r, d.dedupeTTL, nil
		})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, email *Email) (*Result, error) {
	res, err := d.sender.Send(ctx, email)
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	d.logger.DebugContext(ctx, "email submitted",
		slog.String("message_id", res.ID),
		slog.String("status", string(res.Status)),
	)

	if res.Status.IsTerminal() {
		return res, nil
	}

	checker, ok := d.sender.(StatusChecker)
	if !ok {
		// Nothing to poll: the submission status is all the provider offers.
		return res, nil
	}

	return d.poll(ctx, checker, res.ID, res.Status)
}

func (d *Dispatcher) poll(ctx context.Context, checker StatusChecker, id string, last Status) (*Result, error) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for attempt := 1; attempt <= d.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		status, err := checker.Status(ctx, id)
		if err != nil {
			lastErr = err
			d.logger.WarnContext(ctx, "email status check failed",
				slog.String("message_id", id),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			continue
		}

		last = status
		if status.IsTerminal() {
			return &Result{ID: id, Status: status}, nil
		}
	}

	err := fmt.Errorf("%w: message %s is %q after %d checks", ErrDeliveryPending, id, last, d.pollAttempts)
	if lastErr != nil {
		err = errors.Join(err, lastErr)
	}
	return nil, err
}
