/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/atomic"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <port> <output-file>",
	Short: "Capture serial data to a file",
	Long: `Append every byte received on a port to a file, unchanged.

The file is created if missing and never truncated. With --console the same
bytes are also copied raw to stdout. Stops on Ctrl+C or when the device
goes away, then prints the byte count to stderr.

Example usage:
  serialport capture /dev/ttyUSB0 data.log
  serialport capture /dev/ttyUSB0 output.txt --baud 9600
  serialport capture /dev/ttyUSB0 capture.log --console`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]
		outputPath := args[1]

		bufferSize, _ := cmd.Flags().GetInt("buffer")
		showConsole, _ := cmd.Flags().GetBool("console")

		if err := runCapture(portPath, outputPath, bufferSize, showConsole); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Int("buffer", 4096, "Read buffer size")
	captureCmd.Flags().BoolP("console", "c", false, "Also copy received bytes to stdout")
}

func runCapture(portPath, outputPath string, bufferSize int, showConsole bool) error {
	if err := checkBufferSize(bufferSize); err != nil {
		return err
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	port, _, err := openPort(portPath)
	if err != nil {
		return fmt.Errorf("failed to open port: %w", err)
	}
	defer port.Close()

	var written atomic.Int64
	startTime := time.Now()

	summary := func() {
		fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes written in %v\n",
			written.Load(), time.Since(startTime).Round(time.Millisecond))
	}

	onInterrupt(func() {
		fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, shutting down...\n")
		port.Close()
		file.Sync()
		file.Close()
		summary()
		os.Exit(0)
	})

	fmt.Fprintf(os.Stderr, "Capturing data from %s to %s\n", portPath, outputPath)
	if showConsole {
		fmt.Fprintf(os.Stderr, "Console display enabled\n")
	}
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	_, err = pump(port, make([]byte, bufferSize), func(data []byte) error {
		n, err := file.Write(data)
		written.Add(int64(n))
		if err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		if showConsole {
			os.Stdout.Write(data)
		}
		return nil
	})
	if err != nil {
		return err
	}

	summary()
	return nil
}
