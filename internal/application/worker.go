package application

import "context"

// Worker represents a background process that triggers sync runs.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}
