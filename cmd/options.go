/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/allbin/serialport"
	"github.com/spf13/viper"
)

// paramsFrom reads the line settings from v, where flags, environment and
// config file have already been merged.
func paramsFrom(v *viper.Viper) (serialport.Params, error) {
	parity, err := serialport.ParseParity(v.GetString("parity"))
	if err != nil {
		return serialport.Params{}, err
	}

	p := serialport.Params{
		BaudRate: serialport.BaudRate(v.GetInt("baud")),
		CharSize: serialport.CharSize(v.GetInt("char-size")),
		Parity:   parity,
	}
	if err := p.Validate(); err != nil {
		return serialport.Params{}, fmt.Errorf("%w: %s", err, p)
	}
	return p, nil
}

// openPort opens portPath with the configured line settings and the CLI
// logger.
func openPort(portPath string) (*serialport.Port, serialport.Params, error) {
	params, err := paramsFrom(viper.GetViper())
	if err != nil {
		return nil, params, err
	}

	port, err := serialport.Open(portPath,
		serialport.WithParams(params),
		serialport.WithLogger(log),
	)
	if err != nil {
		return nil, params, err
	}
	return port, params, nil
}
