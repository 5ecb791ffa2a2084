package server

import (
	"net"
	"sync"
	"testing"

	"github.com/freekieb7/coyote/test"
)

func TestRingBuffer(t *testing.T) {
	q := NewRingBuffer[int]()

	_, err := q.Dequeue()
	test.AssertErrorIs(t, err, ErrEmpty)

	for i := range WorkerPoolSize {
		test.AssertNoError(t, q.Enqueue(i))
	}
	test.AssertErrorIs(t, q.Enqueue(WorkerPoolSize), ErrFull)
	test.AssertEqual(t, WorkerPoolSize, q.Len())

	for i := range WorkerPoolSize {
		v, err := q.Dequeue()
		test.AssertNoError(t, err)
		test.AssertEqual(t, i, v)
	}
	test.AssertEqual(t, 0, q.Len())
}

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool()
	test.AssertEqual(t, WorkerPoolSize, wp.Idle())

	client, conn := net.Pipe()
	defer client.Close()
	defer conn.Close()

	connCtx := wp.Acquire(conn)
	test.AssertEqual(t, WorkerPoolSize-1, wp.Idle())
	if connCtx.Conn != conn {
		t.Error("context not bound to connection")
	}

	wp.Release(connCtx)
	test.AssertEqual(t, WorkerPoolSize, wp.Idle())
	if connCtx.Conn != nil {
		t.Error("released context still holds the connection")
	}
}

func TestWorkerPoolExhausted(t *testing.T) {
	wp := NewWorkerPool()

	acquired := make([]*ConnCtx, 0, WorkerPoolSize+1)
	for range WorkerPoolSize + 1 {
		acquired = append(acquired, wp.Acquire(nil))
	}
	test.AssertEqual(t, 0, wp.Idle())

	for _, connCtx := range acquired {
		wp.Release(connCtx)
	}
	test.AssertEqual(t, WorkerPoolSize, wp.Idle())
}

func TestWorkerPoolConcurrent(t *testing.T) {
	wp := NewWorkerPool()

	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				wp.Release(wp.Acquire(nil))
			}
		}()
	}
	wg.Wait()

	test.AssertEqual(t, WorkerPoolSize, wp.Idle())
}
