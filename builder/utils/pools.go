package utils

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

// BufferPool manages a pool of reusable bytes.Buffer objects.
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

func (p *BufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put resets buf and returns it to the pool. Buffers grown past
// MaxBufferSize are dropped.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > MaxBufferSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

// BufioWriterPool manages a pool of reusable bufio.Writer objects
type BufioWriterPool struct {
	pool sync.Pool
}

func NewBufioWriterPool() *BufioWriterPool {
	return &BufioWriterPool{}
}

// Get retrieves a bufio.Writer from the pool, configured with the target writer
func (p *BufioWriterPool) Get(w io.Writer) *bufio.Writer {
	if bw := p.pool.Get(); bw != nil {
		writer := bw.(*bufio.Writer)
		writer.Reset(w)
		return writer
	}
	return bufio.NewWriterSize(w, MaxBufferSize)
}

func (p *BufioWriterPool) Put(bw *bufio.Writer) {
	bw.Reset(nil)
	p.pool.Put(bw)
}

var (
	SharedBufferPool      = NewBufferPool()
	SharedBufioWriterPool = NewBufioWriterPool()
)
