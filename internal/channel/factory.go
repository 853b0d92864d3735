//go:build !debug

package channel

// New creates a new channel with the given buffer size
// Builds tagged debug get an unbuffered channel to surface ordering bugs.
func New[T any](size int) Channel[T] {
	return NewBuffered[T](size)
}
