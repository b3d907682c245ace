package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"cook-bot/internal/domain/entity"
	"cook-bot/internal/domain/port"
)

// fakeChannel имитирует контроллер: на каждую записанную строку отвечает respond(line).
type fakeChannel struct {
	mu          sync.Mutex
	written     []string
	inbound     []byte
	chunk       int
	respond     func(line string) string
	writeErr    error
	readErr     error
	readTimeout time.Duration
	reads       int
	closed      bool
}

func (c *fakeChannel) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	line := string(p)
	c.written = append(c.written, line)
	if c.respond != nil {
		c.inbound = append(c.inbound, c.respond(line)...)
	}
	return len(p), nil
}

func (c *fakeChannel) Read(p []byte) (int, error) {
	c.mu.Lock()
	c.reads++
	if c.readErr != nil {
		c.mu.Unlock()
		return 0, c.readErr
	}
	if len(c.inbound) > 0 {
		n := len(c.inbound)
		if c.chunk > 0 && n > c.chunk {
			n = c.chunk
		}
		n = copy(p, c.inbound[:n])
		c.inbound = c.inbound[n:]
		c.mu.Unlock()
		return n, nil
	}
	timeout := c.readTimeout
	c.mu.Unlock()

	time.Sleep(timeout)
	return 0, nil
}

func (c *fakeChannel) Drain() error { return nil }

func (c *fakeChannel) ResetInputBuffer() error {
	c.mu.Lock()
	c.inbound = nil
	c.mu.Unlock()
	return nil
}

func (c *fakeChannel) SetReadTimeout(t time.Duration) error {
	c.mu.Lock()
	c.readTimeout = t
	c.mu.Unlock()
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeChannel) lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.written...)
}

func ackAll(string) string { return "ACK\r\n" }

type fakeEnumerator struct {
	ports []string
	err   error
	calls int
}

func (e *fakeEnumerator) List() ([]string, error) {
	e.calls++
	return e.ports, e.err
}

// fakeOpener отдаёт каналы по очереди; когда очередь пуста, открывает новый с ACK на всё.
type fakeOpener struct {
	channels []*fakeChannel
	err      error
	opened   []string
	bauds    []int
}

func (o *fakeOpener) Open(name string, baudRate int, _ time.Duration) (port.SerialChannel, error) {
	if o.err != nil {
		return nil, o.err
	}
	o.opened = append(o.opened, name)
	o.bauds = append(o.bauds, baudRate)
	if len(o.channels) == 0 {
		return &fakeChannel{respond: ackAll}, nil
	}
	ch := o.channels[0]
	o.channels = o.channels[1:]
	return ch, nil
}

type fakeReleaser struct {
	err   error
	names []string
}

func (r *fakeReleaser) Release(_ context.Context, name string) error {
	r.names = append(r.names, name)
	return r.err
}

type fakeDetector struct {
	regions []entity.DetectedRegion
	err     error
}

func (d *fakeDetector) Detect(context.Context, []byte) ([]entity.DetectedRegion, error) {
	return d.regions, d.err
}

func (d *fakeDetector) Annotate(frame []byte, _ []entity.DetectedRegion) ([]byte, error) {
	return append([]byte("annotated:"), frame...), nil
}

type fakeGenerator struct {
	text   string
	err    error
	labels []string
}

func (g *fakeGenerator) Generate(_ context.Context, label string) (string, error) {
	g.labels = append(g.labels, label)
	return g.text, g.err
}

var errUnplugged = errors.New("device not configured")

func noSleep(time.Duration) {}
