/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/allbin/serialport"
	"github.com/allbin/serialport/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// log is replaced once flags and config have been read
var log = logrus.NewEntry(logrus.StandardLogger())

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialport",
	Short: "Talk to serial devices in raw binary mode",
	Long: `serialport opens serial devices in raw mode (no echo, no line editing,
no newline translation) and moves bytes to and from them unchanged.

Line settings are shared by every command and can come from flags, from
SERIALPORT_* environment variables or from a config file:

  baud: 115200
  char-size: 8
  parity: none
  log-level: info`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		entry, err := logging.New("serialport", logging.Options{
			Level:  viper.GetString("log-level"),
			Format: viper.GetString("log-format"),
		})
		if err != nil {
			return err
		}
		log = entry
		if used := viper.ConfigFileUsed(); used != "" {
			log.WithField("file", used).Debug("using config file")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.serialport.yaml)")
	flags.IntP("baud", "b", serialport.Baud9600.Int(), "Baud rate")
	flags.Int("char-size", serialport.CharSize8.Int(), "Data bits per character: 5, 6, 7 or 8")
	flags.StringP("parity", "p", serialport.ParityNone.String(), "Parity: none, odd, even")
	flags.String("log-level", "warn", "Log level: trace, debug, info, warn, error (or 0-6)")
	flags.String("log-format", "text", "Log format: text or json")

	for _, name := range []string{"baud", "char-size", "parity", "log-level", "log-format"} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".serialport")
	}

	viper.SetEnvPrefix("SERIALPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
}
