package serialport

import "fmt"

// BaudRate is a line speed in bits per second. The named constants are the
// standard rates; any positive value may be used where the platform allows.
type BaudRate int

const (
	Baud50      BaudRate = 50
	Baud75      BaudRate = 75
	Baud110     BaudRate = 110
	Baud134     BaudRate = 134
	Baud150     BaudRate = 150
	Baud200     BaudRate = 200
	Baud300     BaudRate = 300
	Baud600     BaudRate = 600
	Baud1200    BaudRate = 1200
	Baud1800    BaudRate = 1800
	Baud2400    BaudRate = 2400
	Baud4800    BaudRate = 4800
	Baud9600    BaudRate = 9600
	Baud19200   BaudRate = 19200
	Baud38400   BaudRate = 38400
	Baud57600   BaudRate = 57600
	Baud115200  BaudRate = 115200
	Baud230400  BaudRate = 230400
	Baud460800  BaudRate = 460800
	Baud500000  BaudRate = 500000
	Baud576000  BaudRate = 576000
	Baud921600  BaudRate = 921600
	Baud1000000 BaudRate = 1000000
	Baud1152000 BaudRate = 1152000
	Baud1500000 BaudRate = 1500000
	Baud2000000 BaudRate = 2000000
	Baud2500000 BaudRate = 2500000
	Baud3000000 BaudRate = 3000000
	Baud3500000 BaudRate = 3500000
	Baud4000000 BaudRate = 4000000
)

func (b BaudRate) Int() int {
	return int(b)
}

// CharSize is the number of data bits per character.
type CharSize int

const (
	CharSize5 CharSize = 5
	CharSize6 CharSize = 6
	CharSize7 CharSize = 7
	CharSize8 CharSize = 8
)

func (c CharSize) Int() int {
	return int(c)
}

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return fmt.Sprintf("Parity(%d)", int(p))
	}
}

// ParseParity converts "none", "odd" or "even" (or N, O, E) to a Parity.
func ParseParity(s string) (Parity, error) {
	switch s {
	case "none", "n", "N", "":
		return ParityNone, nil
	case "odd", "o", "O":
		return ParityOdd, nil
	case "even", "e", "E":
		return ParityEven, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidParity, s)
}

// Params is the line configuration applied by Port.SetParams.
// It carries no validation of its own; values are checked when applied.
type Params struct {
	BaudRate BaudRate
	CharSize CharSize
	Parity   Parity
}

// DefaultParams returns 9600 baud, 8 data bits, no parity.
func DefaultParams() Params {
	return Params{
		BaudRate: Baud9600,
		CharSize: CharSize8,
		Parity:   ParityNone,
	}
}

// String formats the params in the usual "9600 8N" notation.
func (p Params) String() string {
	par := "?"
	switch p.Parity {
	case ParityNone:
		par = "N"
	case ParityOdd:
		par = "O"
	case ParityEven:
		par = "E"
	}
	return fmt.Sprintf("%d %d%s", p.BaudRate, p.CharSize, par)
}

// Validate reports the first value that no platform can represent.
// The returned error is one of ErrInvalidBaudRate, ErrInvalidCharSize or
// ErrInvalidParity.
func (p Params) Validate() error {
	if p.BaudRate <= 0 {
		return ErrInvalidBaudRate
	}
	if p.CharSize < CharSize5 || p.CharSize > CharSize8 {
		return ErrInvalidCharSize
	}
	switch p.Parity {
	case ParityNone, ParityOdd, ParityEven:
	default:
		return ErrInvalidParity
	}
	return nil
}
