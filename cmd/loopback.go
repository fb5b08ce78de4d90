/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/allbin/serialport/internal/format"
	"github.com/allbin/serialport/internal/styles"
	"github.com/spf13/cobra"
)

var errNoEcho = errors.New("no echo received before timeout")

// loopbackCmd represents the loopback command
var loopbackCmd = &cobra.Command{
	Use:   "loopback <port>",
	Short: "Check a port whose TX and RX lines are bridged",
	Long: `Send a test pattern and verify that it comes back unchanged.

Connect TX to RX on the adapter (or use a null modem pair) before running.
Every byte value 0x00-0xFF is sent, including CR, LF and the terminal
control characters, so any translation by the driver shows up as a
mismatch.

Example usage:
  serialport loopback /dev/ttyUSB0
  serialport loopback /dev/ttyUSB0 --baud 921600 --count 65536`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		count, _ := cmd.Flags().GetInt("count")
		chunk, _ := cmd.Flags().GetInt("chunk")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if count <= 0 || chunk <= 0 {
			fmt.Fprintf(os.Stderr, "Error: --count and --chunk must be positive\n")
			os.Exit(1)
		}

		port, params, err := openPort(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", styles.Symbol(styles.StatusFailed), err)
			os.Exit(1)
		}
		defer port.Close()

		fmt.Printf("%s Loopback on %s at %s, %d bytes\n", styles.Symbol(styles.StatusInfo), portPath, params, count)

		result, err := runLoopback(port, testPattern(count), chunk, timeout)
		if err != nil {
			port.Close()
			fmt.Fprintf(os.Stderr, "%s %v (%d of %d bytes echoed)\n", styles.Symbol(styles.StatusFailed), err, result.Received, result.Sent)
			os.Exit(1)
		}
		if result.Mismatch >= 0 {
			port.Close()
			fmt.Fprintf(os.Stderr, "%s Data mismatch at byte %d: %s\n", styles.Symbol(styles.StatusFailed), result.Mismatch, result.Detail)
			os.Exit(1)
		}

		rate := float64(result.Sent) / result.Elapsed.Seconds()
		fmt.Printf("%s %d bytes echoed unchanged in %v (%.0f B/s)\n",
			styles.Symbol(styles.StatusOK), result.Received, result.Elapsed.Round(time.Millisecond), rate)
	},
}

func init() {
	rootCmd.AddCommand(loopbackCmd)

	loopbackCmd.Flags().Int("count", 256, "Number of bytes to send")
	loopbackCmd.Flags().Int("chunk", 64, "Bytes written before waiting for the echo")
	loopbackCmd.Flags().Duration("timeout", 2*time.Second, "How long to wait for each echoed chunk")
}

type loopbackPort interface {
	io.ReadWriter
	Flush() error
}

type loopbackResult struct {
	Sent     int
	Received int
	Mismatch int // offset of the first differing byte, -1 when none
	Detail   string
	Elapsed  time.Duration
}

// testPattern cycles through every byte value.
func testPattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// runLoopback writes pattern one chunk at a time, drains, and reads the
// same number of bytes back before moving on, so neither side's buffers
// can overflow.
func runLoopback(p loopbackPort, pattern []byte, chunk int, timeout time.Duration) (loopbackResult, error) {
	res := loopbackResult{Sent: len(pattern), Mismatch: -1}
	got := make([]byte, len(pattern))
	start := time.Now()

	for off := 0; off < len(pattern); off += chunk {
		end := min(off+chunk, len(pattern))

		if _, err := writeAll(p, pattern[off:end]); err != nil {
			return res, err
		}
		if err := p.Flush(); err != nil {
			return res, err
		}

		n, err := readWithin(p, got[off:end], timeout)
		res.Received += n
		if err != nil {
			return res, err
		}
	}
	res.Elapsed = time.Since(start)

	for i := range pattern {
		if got[i] != pattern[i] {
			res.Mismatch = i
			end := min(i+8, len(pattern))
			res.Detail = fmt.Sprintf("sent %s, got %s", format.Hex(pattern[i:end]), format.Hex(got[i:end]))
			break
		}
	}
	return res, nil
}

// readWithin fills buf or gives up after timeout. On timeout the read is
// left running; the caller is expected to close the port.
func readWithin(r io.Reader, buf []byte, timeout time.Duration) (int, error) {
	type result struct {
		n   int
		err error
	}

	tmp := make([]byte, len(buf))
	done := make(chan result, 1)
	go func() {
		n, err := io.ReadFull(r, tmp)
		done <- result{n, err}
	}()

	select {
	case res := <-done:
		copy(buf, tmp[:res.n])
		return res.n, res.err
	case <-time.After(timeout):
		return 0, errNoEcho
	}
}
