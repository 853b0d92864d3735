package channel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffered_TrySendFull(t *testing.T) {
	c := NewBuffered[int](2)

	assert.True(t, c.TrySend(1))
	assert.True(t, c.TrySend(2))
	assert.False(t, c.TrySend(3))
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, 1, <-c.Receive())
	assert.Equal(t, 2, <-c.Receive())
}

func TestBuffered_CloseTwice(t *testing.T) {
	c := NewBuffered[string](1)
	c.Send("last")
	c.Close()
	c.Close()

	v, ok := <-c.Receive()
	require.True(t, ok)
	assert.Equal(t, "last", v)

	_, ok = <-c.Receive()
	assert.False(t, ok)
}

func TestUnbuffered_TrySendWithoutReceiver(t *testing.T) {
	c := NewUnbuffered[int]()
	assert.False(t, c.TrySend(1))
	assert.Equal(t, 0, c.Len())

	got := make(chan int)
	go func() { got <- <-c.Receive() }()

	c.Send(7)
	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("value never received")
	}
	c.Close()
	c.Close()
}
