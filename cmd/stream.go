/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/serialport"
)

// checkBufferSize rejects a --buffer value no read can make progress with.
func checkBufferSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("--buffer must be positive, got %d", size)
	}
	return nil
}

// pump reads from r into buf until r fails, handing each chunk to fn. A
// closed port or end of input ends the loop without an error. A read that
// returns neither data nor an error stops it with io.ErrNoProgress.
func pump(r io.Reader, buf []byte, fn func([]byte) error) (int64, error) {
	var total int64
	for {
		n, err := r.Read(buf)
		if n == 0 && err == nil {
			return total, io.ErrNoProgress
		}
		if n > 0 {
			total += int64(n)
			if ferr := fn(buf[:n]); ferr != nil {
				return total, ferr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, serialport.ErrClosed) {
				return total, nil
			}
			return total, err
		}
	}
}

// writeAll loops over short writes until data is gone.
func writeAll(w io.Writer, data []byte) (int, error) {
	written := 0
	for written < len(data) {
		n, err := w.Write(data[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// onInterrupt runs fn once on Ctrl+C or SIGTERM. A blocked read cannot be
// cancelled, so fn is expected to end the process.
func onInterrupt(fn func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fn()
	}()
}
