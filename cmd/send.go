/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/allbin/serialport/internal/format"
	"github.com/allbin/serialport/internal/styles"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] <port>",
	Short: "Send data to a serial port",
	Long: `Write bytes to a port and return once they have left the transmitter.

The payload is the first argument, or piped stdin (trailing line endings
dropped), or a line typed at the prompt. It is written as is; --newline
appends LF to text and --hex reads the payload as hex byte pairs.

Example usage:
  serialport send "Hello World" /dev/ttyUSB0
  serialport send "AT+GMR" /dev/ttyUSB0 --newline --baud 115200
  serialport send --hex "41 42 43" /dev/ttyUSB0
  echo "test" | serialport send /dev/ttyUSB0`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var data string
		var portPath string

		// Parse arguments: either "send data port" or "send port"
		if len(args) == 1 {
			portPath = args[0]
			stat, err := os.Stdin.Stat()
			if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
				data = promptForData()
			} else {
				stdinData, err := io.ReadAll(os.Stdin)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
					os.Exit(1)
				}
				data = strings.TrimRight(string(stdinData), "\r\n")
			}
		} else {
			data = args[0]
			portPath = args[1]
		}

		addNewline, _ := cmd.Flags().GetBool("newline")
		hexMode, _ := cmd.Flags().GetBool("hex")

		payload, err := buildPayload(data, hexMode, addNewline)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid hex data: %v\n", err)
			os.Exit(1)
		}

		if err := sendData(portPath, payload); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
}

func promptForData() string {
	fmt.Print(styles.InfoStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

// buildPayload turns the user's input into the bytes to put on the wire.
// The newline is only added to text input.
func buildPayload(data string, hexMode, addNewline bool) ([]byte, error) {
	if hexMode {
		return format.ParseHex(data)
	}
	if addNewline {
		data += "\n"
	}
	return []byte(data), nil
}

func sendData(portPath string, data []byte) error {
	fmt.Printf("%s Opening %s...\n", styles.Symbol(styles.StatusInfo), portPath)

	port, params, err := openPort(portPath)
	if err != nil {
		return fmt.Errorf("%s %v", styles.Symbol(styles.StatusFailed), err)
	}
	defer port.Close()

	fmt.Printf("%s Connected at %s\n", styles.Symbol(styles.StatusOK), params)
	fmt.Printf("%s Sending %d bytes...\n", styles.Symbol(styles.StatusPending), len(data))

	n, err := writeAll(port, data)
	if err != nil {
		return fmt.Errorf("%s failed to send data after %d bytes: %v", styles.Symbol(styles.StatusFailed), n, err)
	}
	if err := port.Flush(); err != nil {
		return fmt.Errorf("%s failed to drain output: %v", styles.Symbol(styles.StatusFailed), err)
	}

	fmt.Printf("%s Successfully sent %d bytes\n", styles.Symbol(styles.StatusOK), n)
	fmt.Printf("%s Data: %s\n", styles.InfoStyle.Render("📋"), format.Preview(data, 50))

	return nil
}
