package common

import (
	"errors"
	"io"
	"sync"
	"time"
)

// fakePort is an in-memory serial port. Writes are answered from replies in order,
// Read returns io.EOF when nothing is pending, like tarm/serial after its read timeout.
type fakePort struct {
	mu       sync.Mutex
	pending  []byte
	chunk    int
	replies  [][]byte
	written  [][]byte
	flushes  int
	writeErr error
	readErr  error
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.pending) == 0 {
		return 0, io.EOF
	}
	n := len(p.pending)
	if p.chunk > 0 && n > p.chunk {
		n = p.chunk
	}
	n = copy(b, p.pending[:n])
	p.pending = p.pending[n:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.written = append(p.written, append([]byte(nil), b...))
	if len(p.replies) > 0 {
		p.pending = append(p.pending, p.replies[0]...)
		p.replies = p.replies[1:]
	}
	return len(b), nil
}

func (p *fakePort) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushes++
	p.pending = nil
	return nil
}

func (p *fakePort) inject(b []byte) {
	p.mu.Lock()
	p.pending = append(p.pending, b...)
	p.mu.Unlock()
}

func (p *fakePort) setWriteErr(err error) {
	p.mu.Lock()
	p.writeErr = err
	p.mu.Unlock()
}

var errWire = errors.New("wire broken")

const testIdle = 5 * time.Millisecond

type timedChunk struct {
	at   time.Duration
	data []byte
}

// timedPort releases each chunk once its offset from the first Read has passed.
// Read never blocks and returns 0, nil while nothing is due, like a UART ring buffer.
type timedPort struct {
	mu     sync.Mutex
	start  time.Time
	chunks []timedChunk
}

func (p *timedPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.start.IsZero() {
		p.start = time.Now()
	}
	elapsed := time.Since(p.start)
	n := 0
	for len(p.chunks) > 0 && p.chunks[0].at <= elapsed && n+len(p.chunks[0].data) <= len(b) {
		n += copy(b[n:], p.chunks[0].data)
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *timedPort) Write(b []byte) (int, error) { return len(b), nil }

func (p *timedPort) Flush() error { return nil }

// trickle spreads data over time, one byte every gap
func trickle(data string, gap time.Duration) []timedChunk {
	chunks := make([]timedChunk, 0, len(data))
	for i := 0; i < len(data); i++ {
		chunks = append(chunks, timedChunk{at: time.Duration(i) * gap, data: []byte{data[i]}})
	}
	return chunks
}
