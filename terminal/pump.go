package terminal

import (
	"context"
	"io"
	"sync"
)

// pump reads a byte source on its own goroutine and delivers each non-empty
// read as a chunk. It is the readiness source the Mux waits on.
//
// Every read happens under mu. hold parks the pump between reads so that
// whoever holds it is the source's only reader; for the line this relies on
// reads returning at the line's read timeout.
type pump struct {
	name string
	r    io.Reader
	size int

	mu   sync.Mutex
	out  chan []byte
	errc chan error
}

func newPump(name string, r io.Reader, size int) *pump {
	return &pump{
		name: name,
		r:    r,
		size: size,
		out:  make(chan []byte),
		errc: make(chan error, 1),
	}
}

func (p *pump) start(ctx context.Context) {
	go p.run(ctx)
}

func (p *pump) run(ctx context.Context) {
	buf := make([]byte, p.size)
	for {
		if ctx.Err() != nil {
			return
		}

		p.mu.Lock()
		n, err := p.r.Read(buf)
		p.mu.Unlock()

		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case p.out <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			p.errc <- NewError(ErrMultiplexWait, p.name, err)
			return
		}
	}
}

// hold waits for the current read to finish and keeps the pump from reading
// again until release.
func (p *pump) hold() {
	p.mu.Lock()
}

func (p *pump) release() {
	p.mu.Unlock()
}

// pumpReader turns a pump's chunks back into an io.Reader for a consumer that
// temporarily takes over the console, such as the line editor.
//
// Read returns one byte at a time so the consumer never buffers input past
// the point it stops reading; whatever it left unread is returned by take.
type pumpReader struct {
	ctx  context.Context
	p    *pump
	rest []byte
}

func (r *pumpReader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(r.rest) == 0 {
		select {
		case chunk := <-r.p.out:
			r.rest = chunk
		case err := <-r.p.errc:
			r.p.errc <- err
			return 0, err
		case <-r.ctx.Done():
			return 0, r.ctx.Err()
		}
	}
	b[0] = r.rest[0]
	r.rest = r.rest[1:]
	return 1, nil
}

// take returns the unread rest of the current chunk and forgets it.
func (r *pumpReader) take() []byte {
	rest := r.rest
	r.rest = nil
	return rest
}
