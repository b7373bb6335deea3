package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"

	"robosense/host/config"
	"robosense/host/telemetry"
)

var (
	logLevel   = "info"
	configPath = ""
	device     = ""
	baud       = 0

	conf config.Config
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

// loadConfig reads the config file and applies the flags given on the
// command line over it.
func loadConfig(cmd *cobra.Command) error {
	var err error
	conf, err = config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		conf.Device = device
	}
	if flags.Changed("baud") {
		conf.Baud = baud
	}
	if !flags.Changed("log-level") && conf.LogLevel != "" {
		logLevel = conf.LogLevel
	}
	if err := setupLogger(); err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	logrus.WithFields(conf.LogrusFields()).Debug("config loaded")
	return nil
}

func calibration() telemetry.Calibration {
	return telemetry.Calibration{
		Bandgap: physic.ElectricPotential(conf.BandgapMicrovolts) * physic.MicroVolt,
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "robosense-host",
		Short: "robosense-host reads sensor telemetry from the robot",
		Long: `robosense-host reads the periodic sensor reports the robot streams over
its serial link: battery, line sensors, wheel odometry and ultrasonic distance.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", logLevel, "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVarP(&device, "device", "d", device, "serial device (overrides config)")
	globalFlags.IntVar(&baud, "baud", baud, "baud rate (overrides config)")

	cmd.AddCommand(
		NewMonitorCommand(),
		NewBridgeCommand(),
		NewDecodeCommand(),
		NewVersionCommand(),
	)

	return cmd
}
