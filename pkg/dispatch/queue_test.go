package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 200; i++ {
		require.True(t, q.Send(i))
	}
	assert.Equal(t, 200, q.Len())

	for i := 0; i < 200; i++ {
		v, ok := q.TryRecv()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := q.TryRecv()
	assert.False(t, ok)
}

func TestQueue_InterleavedSendRecvKeepsOrder(t *testing.T) {
	q := NewQueue[int]()
	next := 0
	for i := 0; i < 1000; i++ {
		q.Send(i)
		if i%3 == 0 {
			v, ok := q.TryRecv()
			require.True(t, ok)
			require.Equal(t, next, v)
			next++
		}
	}
	for {
		v, ok := q.TryRecv()
		if !ok {
			break
		}
		require.Equal(t, next, v)
		next++
	}
	assert.Equal(t, 1000, next)
}

func TestQueue_ConcurrentProducersPreservePerProducerOrder(t *testing.T) {
	q := NewQueue[[2]int]()
	const producers, perProducer = 8, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Send([2]int{p, i})
			}
		}(p)
	}
	wg.Wait()

	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	count := 0
	for {
		v, ok := q.TryRecv()
		if !ok {
			break
		}
		require.Greater(t, v[1], last[v[0]])
		last[v[0]] = v[1]
		count++
	}
	assert.Equal(t, producers*perProducer, count)
}

func TestQueue_RecvWaitsForSend(t *testing.T) {
	q := NewQueue[string]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Send("hello")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := q.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestQueue_CloseDropsSends(t *testing.T) {
	q := NewQueue[int]()
	q.Send(1)
	q.Close()

	assert.False(t, q.Send(2))

	ctx := context.Background()
	v, err := q.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = q.Recv(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_RecvHonoursContext(t *testing.T) {
	q := NewQueue[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
