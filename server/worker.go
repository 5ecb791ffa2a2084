package server

import (
	"bufio"
	"errors"
	"net"
	"runtime"
	"sync/atomic"
)

// WorkerPoolSize must be a power of 2.
const WorkerPoolSize = 1024

var (
	ErrFull  = errors.New("ring buffer is full")
	ErrEmpty = errors.New("ring buffer is empty")
)

// ConnCtx carries the buffered reader and writer used to serve one connection.
type ConnCtx struct {
	Conn       net.Conn
	ConnReader *bufio.Reader
	ConnWriter *bufio.Writer

	pooled bool
}

func newConnCtx() *ConnCtx {
	return &ConnCtx{
		ConnReader: bufio.NewReaderSize(nil, DefaultReadBufferSize),
		ConnWriter: bufio.NewWriterSize(nil, DefaultWriteBufferSize),
	}
}

func (connCtx *ConnCtx) Reset(conn net.Conn) {
	connCtx.Conn = conn
	connCtx.ConnReader.Reset(conn)
	connCtx.ConnWriter.Reset(conn)
}

// WorkerPool hands out preallocated connection contexts. When every context
// is in use a fresh one is allocated and dropped after use.
type WorkerPool struct {
	ready RingBuffer[*ConnCtx]
}

func NewWorkerPool() *WorkerPool {
	wp := &WorkerPool{ready: NewRingBuffer[*ConnCtx]()}
	for range WorkerPoolSize {
		connCtx := newConnCtx()
		connCtx.pooled = true
		wp.ready.Enqueue(connCtx)
	}
	return wp
}

func (wp *WorkerPool) Acquire(conn net.Conn) *ConnCtx {
	connCtx, err := wp.ready.Dequeue()
	if err != nil {
		connCtx = newConnCtx()
	}
	connCtx.Reset(conn)
	return connCtx
}

func (wp *WorkerPool) Release(connCtx *ConnCtx) {
	connCtx.Reset(nil)
	if !connCtx.pooled {
		return
	}
	wp.ready.Enqueue(connCtx)
}

// Idle returns the number of pooled contexts ready for use.
func (wp *WorkerPool) Idle() int {
	return wp.ready.Len()
}

// RingBuffer is a bounded multi-producer multi-consumer queue holding the
// idle connection contexts of a WorkerPool. Each slot carries a sequence
// number telling producers and consumers whose turn it is.
type RingBuffer[T any] struct {
	buffer [WorkerPoolSize]slot[T]
	mask   uint64
	enqPos uint64
	deqPos uint64
}

type slot[T any] struct {
	sequence uint64
	value    T
}

// NewRingBuffer returns an empty queue with WorkerPoolSize slots.
func NewRingBuffer[T any]() RingBuffer[T] {
	var buf [WorkerPoolSize]slot[T]
	for i := range buf {
		buf[i].sequence = uint64(i)
	}
	return RingBuffer[T]{
		buffer: buf,
		mask:   WorkerPoolSize - 1,
	}
}

// Enqueue appends val, or reports ErrFull when every slot holds an idle
// context. The pool only enqueues contexts it handed out, so ErrFull means a
// context was released twice.
func (q *RingBuffer[T]) Enqueue(val T) error {
	for {
		pos := atomic.LoadUint64(&q.enqPos)
		slot := &q.buffer[pos&q.mask]

		seq := atomic.LoadUint64(&slot.sequence)
		delta := int64(seq) - int64(pos)

		if delta == 0 {
			if atomic.CompareAndSwapUint64(&q.enqPos, pos, pos+1) {
				slot.value = val
				atomic.StoreUint64(&slot.sequence, pos+1)
				return nil
			}
		} else if delta < 0 {
			return ErrFull
		} else {
			runtime.Gosched()
		}
	}
}

// Dequeue takes the oldest idle context, or reports ErrEmpty when all of
// them are serving connections. The slot drops its reference so a released
// connection is not kept alive by the queue.
func (q *RingBuffer[T]) Dequeue() (T, error) {
	var zero T
	for {
		pos := atomic.LoadUint64(&q.deqPos)
		slot := &q.buffer[pos&q.mask]

		seq := atomic.LoadUint64(&slot.sequence)
		delta := int64(seq) - int64(pos+1)

		if delta == 0 {
			if atomic.CompareAndSwapUint64(&q.deqPos, pos, pos+1) {
				val := slot.value
				slot.value = zero
				atomic.StoreUint64(&slot.sequence, pos+q.mask+1)
				return val, nil
			}
		} else if delta < 0 {
			return zero, ErrEmpty
		} else {
			runtime.Gosched()
		}
	}
}

// Len is approximate while producers or consumers are active.
func (q *RingBuffer[T]) Len() int {
	return int(atomic.LoadUint64(&q.enqPos) - atomic.LoadUint64(&q.deqPos))
}
