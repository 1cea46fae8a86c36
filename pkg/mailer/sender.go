package mailer

import "context"

// Sender defines the minimal interface that email providers must implement.
// It accepts a fully-prepared Email, submits it and returns the provider's
// message ID with whatever status the provider reports at submission time.
type Sender interface {
	Send(ctx context.Context, email *Email) (*Result, error)
}

// StatusChecker is implemented by senders whose submission is asynchronous.
// The Dispatcher polls Status until a terminal status is reported.
type StatusChecker interface {
	Status(ctx context.Context, id string) (Status, error)
}
