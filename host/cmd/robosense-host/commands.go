package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"robosense/host/api"
	"robosense/host/config"
	"robosense/host/output"
	"robosense/host/output/console"
	"robosense/host/output/mqtt"
	"robosense/host/robot"
	"robosense/host/telemetry"
	"robosense/protocol"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print protocol version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("robosense-host protocol %s\n", protocol.Version)
		},
	}
}

func NewMonitorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Print readings from the robot to the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run([]output.Output{console.NewConsole()}, "")
		},
	}
}

func NewBridgeCommand() *cobra.Command {
	listen := ""
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Forward readings to the configured outputs and serve the status API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("listen") {
				conf.Listen = listen
			}
			outs, err := openOutputs(conf.Outputs)
			if err != nil {
				return err
			}
			defer closeOutputs(outs)
			return run(outs, conf.Listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "status API address, e.g. :8080 (overrides config)")
	return cmd
}

func NewDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [capture-file]",
		Short: "Decode a raw capture of the serial stream",
		Long: `Decode a raw capture of the serial stream, e.g. one recorded with
'cat /dev/ttyUSB0 > capture.bin'. Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return pkgerrors.Wrapf(err, "failed to open capture %s", args[0])
				}
				defer f.Close()
				in = f
			}

			out := console.NewWriter(cmd.OutOrStdout())
			st, err := telemetry.DecodeStream(in, calibration(), out.Publish)
			logrus.WithFields(logrus.Fields{
				"frames":       st.Frames,
				"dropped":      st.Dropped,
				"decodeErrors": st.DecodeErrors,
			}).Info("capture decoded")
			return err
		},
	}
}

func openOutputs(cfgs []config.OutputConfig) ([]output.Output, error) {
	outs := make([]output.Output, 0, len(cfgs))
	for _, oc := range cfgs {
		switch oc.Type {
		case config.OutputConsole:
			outs = append(outs, console.NewConsole())
		case config.OutputMQTT:
			o, err := mqtt.NewMQTT(*oc.MQTT)
			if err != nil {
				closeOutputs(outs)
				return nil, err
			}
			logrus.WithField("topic", mqtt.Topic(*oc.MQTT)).Info("publishing to mqtt")
			outs = append(outs, o)
		}
	}
	return outs, nil
}

func closeOutputs(outs []output.Output) {
	for _, o := range outs {
		if err := o.Close(); err != nil {
			logrus.WithError(err).Warn("failed to close output")
		}
	}
}

// run connects to the robot and delivers readings until interrupted.
func run(outs []output.Output, listen string) error {
	r, err := robot.Connect(conf.Serial(), calibration(), logrus.StandardLogger())
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if listen != "" {
		srv := &http.Server{Addr: listen, Handler: api.NewRouter(r, logrus.StandardLogger())}
		go func() {
			logrus.Infof("http server listening on %s", listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.WithError(err).Error("http server failed")
				stop()
			}
		}()
		defer srv.Close()
	}

	return r.Run(ctx, outs...)
}
