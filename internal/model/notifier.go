package model

import "context"

// Notifier delivers a plaintext verification code out-of-band. Delivery
// is fire-and-forget: a failure is logged by the caller and never rolls
// back the state transition that issued the code.
type Notifier interface {
	Send(ctx context.Context, channel Channel, destination, code string) error
}
