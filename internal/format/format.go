// Package format renders serial traffic for the terminal and parses hex
// input given on the command line.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/allbin/serialport/internal/styles"
)

type Direction int

const (
	RX Direction = iota
	TX
)

// Chunk is one read or write as it happened on the port.
type Chunk struct {
	Timestamp time.Time
	Data      []byte
	Direction Direction
}

type DisplayMode struct {
	ShowHex   bool
	ShowASCII bool
}

// Formatter turns chunks into display lines. The zero value prints only
// byte counts.
type Formatter struct {
	Mode           DisplayMode
	HideTimestamps bool
	HideIndicators bool
}

func NewFormatter(showHex, showASCII bool) *Formatter {
	return &Formatter{
		Mode: DisplayMode{
			ShowHex:   showHex,
			ShowASCII: showASCII,
		},
	}
}

func (f *Formatter) Format(c Chunk) string {
	var parts []string

	if !f.HideTimestamps {
		parts = append(parts, styles.MutedStyle.Render(fmt.Sprintf("[%s]", c.Timestamp.Format("15:04:05.000"))))
	}

	if !f.HideIndicators {
		if c.Direction == TX {
			parts = append(parts, styles.TXStyle.Render("↗ TX")+":")
		} else {
			parts = append(parts, styles.RXStyle.Render("↙ RX")+":")
		}
	}

	if f.Mode.ShowHex {
		parts = append(parts, "HEX: "+Hex(c.Data))
	}
	if f.Mode.ShowASCII {
		parts = append(parts, "ASCII: "+ASCII(c.Data))
	}
	if !f.Mode.ShowHex && !f.Mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(c.Data)))
	}

	return strings.Join(parts, " ")
}

// Hex renders data as space separated upper case byte pairs.
func Hex(data []byte) string {
	return fmt.Sprintf("% X", data)
}

// ASCII keeps printable characters and replaces everything else with a
// dot, so control bytes from the device never reach the terminal.
func ASCII(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Preview is ASCII cut to at most max characters, with "..." appended
// when something was cut.
func Preview(data []byte, max int) string {
	if len(data) <= max {
		return ASCII(data)
	}
	return ASCII(data[:max]) + "..."
}

// ParseHex decodes strings like "48656c6c6f", "48 65 6C" or "0x48 0x65".
func ParseHex(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "0x", "")
	s = strings.ReplaceAll(s, "0X", "")

	if len(s)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even length")
	}

	out := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		pair := s[i : i+2]
		b, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte '%s': %v", pair, err)
		}
		out = append(out, byte(b))
	}
	return out, nil
}
