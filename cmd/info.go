/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

var errPortNotListed = errors.New("port not found in system port list")

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata.

Examples:
  serialport info /dev/ttyUSB0
  serialport info COM3

For USB devices, this displays vendor/product IDs and the serial number
reported by the operating system.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		ports, err := detailedPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		info, err := findPort(ports, portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting port info: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Port Information: %s\n\n", info.Name)
		fmt.Printf("  Name:        %s\n", filepath.Base(info.Name))
		fmt.Printf("  Type:        %s\n", getPortType(info))

		if info.IsUSB {
			fmt.Println("\nUSB Device Information:")
			fmt.Printf("  Vendor ID:    %s\n", info.VID)
			fmt.Printf("  Product ID:   %s\n", info.PID)
			if info.SerialNumber != "" {
				fmt.Printf("  Serial:       %s\n", info.SerialNumber)
			}
			if info.Product != "" {
				fmt.Printf("  Product:      %s\n", info.Product)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// findPort matches either the full path or the bare device name, so both
// "/dev/ttyUSB0" and "ttyUSB0" work.
func findPort(ports []*enumerator.PortDetails, portPath string) (*enumerator.PortDetails, error) {
	for _, port := range ports {
		if port.Name == portPath || filepath.Base(port.Name) == portPath {
			return port, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", portPath, errPortNotListed)
}
