/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/allbin/serialport/internal/format"
	"github.com/allbin/serialport/internal/styles"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen <port>",
	Short: "Print data received on a serial port",
	Long: `Listen for incoming data on a serial port and print every chunk as it arrives.

Each read is shown on its own line with a timestamp, in ASCII (non-printable
bytes shown as dots) and optionally as hex. Runs until interrupted (Ctrl+C).

Example usage:
  serialport listen /dev/ttyUSB0
  serialport listen /dev/ttyUSB0 --baud 115200 --hex
  serialport listen /dev/ttyUSB0 --raw > dump.bin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		noTimestamps, _ := cmd.Flags().GetBool("no-timestamps")
		showIndicators, _ := cmd.Flags().GetBool("show-indicators")
		showHex, _ := cmd.Flags().GetBool("hex")
		rawMode, _ := cmd.Flags().GetBool("raw")
		bufferSize, _ := cmd.Flags().GetInt("buffer")

		formatter := format.NewFormatter(showHex, true)
		formatter.HideTimestamps = noTimestamps
		formatter.HideIndicators = !showIndicators

		if err := runListen(portPath, formatter, rawMode, bufferSize); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	listenCmd.Flags().Bool("show-indicators", false, "Show RX indicators (off by default)")
	listenCmd.Flags().BoolP("hex", "x", false, "Show received bytes as hex as well")
	listenCmd.Flags().Bool("raw", false, "Write received bytes to stdout unchanged")
	listenCmd.Flags().Int("buffer", 4096, "Read buffer size")
}

func runListen(portPath string, formatter *format.Formatter, rawMode bool, bufferSize int) error {
	if err := checkBufferSize(bufferSize); err != nil {
		return err
	}

	port, params, err := openPort(portPath)
	if err != nil {
		return err
	}

	startTime := time.Now()
	var received atomic.Int64

	onInterrupt(func() {
		port.Close()
		fmt.Fprintf(os.Stderr, "\n%s %d bytes received in %v\n",
			styles.Symbol(styles.StatusOK), received.Load(), time.Since(startTime).Round(time.Millisecond))
		os.Exit(0)
	})

	fmt.Fprintf(os.Stderr, "%s Listening on %s at %s, press Ctrl+C to stop\n",
		styles.Symbol(styles.StatusInfo), portPath, params)

	show := printChunk(os.Stdout, formatter, rawMode)
	_, err = pump(port, make([]byte, bufferSize), func(data []byte) error {
		received.Add(int64(len(data)))
		return show(data)
	})
	port.Close()
	return err
}

// printChunk returns the per-read callback for listen.
func printChunk(w io.Writer, formatter *format.Formatter, rawMode bool) func([]byte) error {
	if rawMode {
		return func(data []byte) error {
			_, err := w.Write(data)
			return err
		}
	}
	return func(data []byte) error {
		_, err := fmt.Fprintln(w, formatter.Format(format.Chunk{
			Timestamp: time.Now(),
			Data:      data,
			Direction: format.RX,
		}))
		return err
	}
}
