/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/allbin/serialport/internal/styles"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

// detailedPorts is swapped out in tests
var detailedPorts = enumerator.GetDetailedPortsList

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports on the system.

This command scans for serial devices including:
- USB serial adapters (ttyUSB*, cu.usbserial*, COM ports behind USB)
- USB CDC/ACM devices (ttyACM*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)

USB devices are shown with their vendor and product IDs.`,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := detailedPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		filtered := filterPorts(ports, filterType)
		log.WithField("found", len(ports)).WithField("shown", len(filtered)).Debug("enumerated ports")

		if len(filtered) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return
		}

		if tableFormat {
			renderTable(filtered)
		} else {
			renderSimple(filtered)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []*enumerator.PortDetails, filterType string) []*enumerator.PortDetails {
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []*enumerator.PortDetails
	for _, port := range ports {
		name := strings.ToLower(filepath.Base(port.Name))
		switch strings.ToLower(filterType) {
		case "usb":
			if port.IsUSB {
				filtered = append(filtered, port)
			}
		case "standard":
			if !port.IsUSB && (strings.HasPrefix(name, "ttys") || strings.HasPrefix(name, "com")) {
				filtered = append(filtered, port)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, port)
			}
		}
	}
	return filtered
}

// renderTable renders the port list in a styled static table format
func renderTable(ports []*enumerator.PortDetails) {
	fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Found %d serial port(s)", len(ports))))
	fmt.Println()

	portWidth := 20
	typeWidth := 16
	idWidth := 11

	header := fmt.Sprintf("%-*s %-*s %-*s %s",
		portWidth, "Port",
		typeWidth, "Type",
		idWidth, "VID:PID",
		"Description")
	fmt.Println(styles.TableHeaderStyle.Render(header))

	for _, port := range ports {
		id := "-"
		if port.IsUSB {
			id = fmt.Sprintf("%s:%s", port.VID, port.PID)
		}
		row := fmt.Sprintf("%-*s %-*s %-*s %s",
			portWidth, port.Name,
			typeWidth, getPortType(port),
			idWidth, id,
			describePort(port))
		fmt.Println(styles.CellStyle.Render(row))
	}
}

// renderSimple renders the port list in simple text format
func renderSimple(ports []*enumerator.PortDetails) {
	for _, port := range ports {
		fmt.Println(port.Name)
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(port *enumerator.PortDetails) string {
	name := strings.ToLower(filepath.Base(port.Name))
	switch {
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case port.IsUSB, strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"), strings.HasPrefix(name, "com"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}

func describePort(port *enumerator.PortDetails) string {
	switch {
	case port.Product != "" && port.SerialNumber != "":
		return fmt.Sprintf("%s (S/N %s)", port.Product, port.SerialNumber)
	case port.Product != "":
		return port.Product
	case port.SerialNumber != "":
		return "S/N " + port.SerialNumber
	}
	return ""
}
