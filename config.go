package serialport

import "github.com/sirupsen/logrus"

// Config holds the settings used while opening a connection
type Config struct {
	// Params, when non-nil, are applied right after raw mode as part of
	// the open. When nil the device keeps the speed and framing it had.
	Params *Params
	Logger *logrus.Entry
}

// Option is a functional option for opening a connection
type Option func(*Config) error

// DefaultConfig returns a configuration that only switches the device to
// raw mode and logs through the logrus standard logger.
func DefaultConfig() Config {
	return Config{
		Logger: logrus.NewEntry(logrus.StandardLogger()).WithField("component", "serialport"),
	}
}

func (c *Config) params() *Params {
	if c.Params == nil {
		p := DefaultParams()
		c.Params = &p
	}
	return c.Params
}

// WithParams sets the baud rate, character size and parity applied on open
func WithParams(p Params) Option {
	return func(c *Config) error {
		if err := p.Validate(); err != nil {
			return err
		}
		// later options edit c.Params in place; never hand them p itself
		cp := p
		c.Params = &cp
		return nil
	}
}

// WithBaudRate sets the baud rate. Unset fields default to DefaultParams.
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if rate <= 0 {
			return ErrInvalidBaudRate
		}
		c.params().BaudRate = BaudRate(rate)
		return nil
	}
}

// WithCharSize sets the number of data bits (5, 6, 7, or 8)
func WithCharSize(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidCharSize
		}
		c.params().CharSize = CharSize(bits)
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		switch parity {
		case ParityNone, ParityOdd, ParityEven:
		default:
			return ErrInvalidParity
		}
		c.params().Parity = parity
		return nil
	}
}

// WithLogger routes the connection's log output to entry
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Config) error {
		if entry != nil {
			c.Logger = entry
		}
		return nil
	}
}
