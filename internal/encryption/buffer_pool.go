package encryption

import (
	"sync"
)

// bufferPool hands out chunk buffers of one fixed size, so concurrent
// transformations never share a buffer and steady-state runs do not allocate.
type bufferPool struct {
	size int
	pool sync.Pool
}

func newBufferPool(size int) *bufferPool {
	p := &bufferPool{size: size}
	p.pool.New = func() any {
		buf := make([]byte, size)

		return &buf
	}

	return p
}

func (p *bufferPool) get() *[]byte {
	buf, ok := p.pool.Get().(*[]byte)
	if !ok || len(*buf) != p.size {
		fresh := make([]byte, p.size)

		return &fresh
	}

	return buf
}

func (p *bufferPool) put(buf *[]byte) {
	p.pool.Put(buf)
}
