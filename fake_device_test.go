package serialport

import (
	"bytes"
	"os"
	"sync"
	"testing"
	"time"
)

// fakeDevice is an in-memory device. Writes are appended to written, reads
// are served from input.
type fakeDevice struct {
	mu       sync.Mutex
	closes   int
	closeErr error
	params   Params
	setErr   error
	sets     int
	written  []byte
	input    bytes.Buffer
	drains   int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{params: DefaultParams()}
}

func (f *fakeDevice) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Read(p)
}

func (f *fakeDevice) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, p...)
	return len(p), nil
}

func (f *fakeDevice) Drain() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drains++
	return nil
}

func (f *fakeDevice) SetParams(p Params) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.params = p
	return nil
}

func (f *fakeDevice) Fd() uintptr { return 42 }

func (f *fakeDevice) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return f.closeErr
}

func (f *fakeDevice) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// pipeDevice loops writes back to reads through an OS pipe, so buffer
// limits and short reads are real.
type pipeDevice struct {
	r, w *os.File
}

func newPipeDevice(t *testing.T) *pipeDevice {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe failed: %v", err)
	}
	return &pipeDevice{r: r, w: w}
}

func (d *pipeDevice) Read(p []byte) (int, error)  { return d.r.Read(p) }
func (d *pipeDevice) Write(p []byte) (int, error) { return d.w.Write(p) }
func (d *pipeDevice) Drain() error                { return nil }
func (d *pipeDevice) SetParams(Params) error      { return nil }
func (d *pipeDevice) Fd() uintptr                 { return d.r.Fd() }

func (d *pipeDevice) Close() error {
	d.w.Close()
	return d.r.Close()
}

// slowDrainDevice accepts writes into a queue that a background
// "transmitter" empties one byte per tick. Drain blocks until it is empty.
type slowDrainDevice struct {
	fakeDevice
	cond        *sync.Cond
	pending     int
	transmitted int
	stop        chan struct{}
}

func newSlowDrainDevice(tick time.Duration) *slowDrainDevice {
	d := &slowDrainDevice{stop: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-d.stop:
				return
			case <-ticker.C:
				d.mu.Lock()
				if d.pending > 0 {
					d.pending--
					d.transmitted++
					d.cond.Broadcast()
				}
				d.mu.Unlock()
			}
		}
	}()
	return d
}

func (d *slowDrainDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending += len(p)
	return len(p), nil
}

func (d *slowDrainDevice) Drain() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.pending > 0 {
		d.cond.Wait()
	}
	return nil
}

func (d *slowDrainDevice) Close() error {
	close(d.stop)
	return d.fakeDevice.Close()
}

// useDevice makes openDevice hand out dev for the duration of the test and
// records the names it was asked to open.
func useDevice(t *testing.T, dev device, openErr error) *[]string {
	t.Helper()
	var names []string
	saved := openDevice
	openDevice = func(name string) (device, error) {
		names = append(names, name)
		if openErr != nil {
			return nil, openErr
		}
		return dev, nil
	}
	t.Cleanup(func() { openDevice = saved })
	return &names
}
