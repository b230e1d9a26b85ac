package interfaces

import "context"

// -----------------------------------------------------------------------------
// INotifier delivers a composed report to its recipient.
// -----------------------------------------------------------------------------

type INotifier interface {

	// Name identifies the transport ("smtp").
	Name() string

	// -----------------------------------------------------------------------------

	// Send delivers the HTML body with the given subject.
	Send(ctx context.Context, subject, htmlBody string) error
}
