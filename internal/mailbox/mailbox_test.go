package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutOverwrites(t *testing.T) {
	mb := New[string]()

	assert.False(t, mb.Put("first"))
	assert.True(t, mb.Put("second"))
	assert.True(t, mb.HasJob())

	j, ok := mb.Take(context.Background())
	require.True(t, ok)
	assert.Equal(t, "second", j)
	assert.False(t, mb.HasJob())
}

func TestTryTake(t *testing.T) {
	mb := New[int]()
	assert.Nil(t, mb.TryTake())

	mb.Put(7)
	got := mb.TryTake()
	require.NotNil(t, got)
	assert.Equal(t, 7, *got)
	assert.Nil(t, mb.TryTake())
}

func TestTakeBlocksUntilPut(t *testing.T) {
	mb := New[int]()

	done := make(chan int)
	go func() {
		j, _ := mb.Take(context.Background())
		done <- j
	}()

	select {
	case <-done:
		t.Fatal("Take returned before Put")
	case <-time.After(20 * time.Millisecond):
	}

	mb.Put(3)
	select {
	case j := <-done:
		assert.Equal(t, 3, j)
	case <-time.After(time.Second):
		t.Fatal("Take did not return after Put")
	}
}

func TestTakeCanceled(t *testing.T) {
	mb := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := mb.Take(ctx)
	assert.False(t, ok)
}
