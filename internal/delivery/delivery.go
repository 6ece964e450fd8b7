// Package delivery defines the contract every transport server fulfills.
package delivery

import "context"

// Delivery is a long-running transport server. Implementations register
// themselves into the "deliveries" Fx group and are started together.
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
