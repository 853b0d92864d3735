// Package channel provides generic channel interfaces for decoupled communication
// between a runtime transport and the event pump that consumes it.
package channel

// Receiver provides read access to a channel.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender provides write access to a channel.
type Sender[T any] interface {
	Send(T)
	// TrySend delivers without blocking and reports whether the value was accepted.
	TrySend(T) bool
}

// Channel combines read and write access.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	// Close closes the channel. Calling it more than once is a no-op.
	Close()
}
