package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"battlog/pkg/adb"
	"battlog/pkg/config"
	"battlog/pkg/monitor"
)

func NewMonitorCommand() *cobra.Command {
	var (
		interval time.Duration
		logToCSV bool
		output   string
		deltas   bool
		thermal  bool
		adbPath  string
	)

	cmd := &cobra.Command{
		Use:     "monitor",
		Aliases: []string{"log"},
		Short:   "Poll battery telemetry from the connected device",
		GroupID: gBasic,
		Long: `Poll battery telemetry from the connected device until interrupted.

Each tick invokes adb once to read the battery state, prints one
formatted line, and, with --log, appends one row to the CSV file. A
failed read is a warning, not a stop: polling continues on the next
tick. Press Ctrl+C to stop.

Flags override values from the config file, which overrides built-in
defaults.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("interval") {
				conf.SetInterval(interval)
			}
			if flags.Changed("log") {
				conf.SetLogEnabled(logToCSV)
			}
			if flags.Changed("output") {
				conf.SetOutputPath(output)
			}
			if flags.Changed("deltas") {
				conf.SetShowDeltas(deltas)
			}
			if flags.Changed("thermal") {
				conf.SetThermalSensors(thermal)
			}
			if flags.Changed("adb") {
				conf.SetADBPath(adbPath)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := adb.New(conf.ADBPath())
			if model, err := client.Model(ctx); err == nil {
				logrus.Infof("connected device: %s", model)
			}

			m := &monitor.Monitor{
				Sampler:    client,
				Interval:   conf.Interval(),
				ShowDeltas: conf.ShowDeltas(),
				Thermal:    conf.ThermalSensors(),
			}

			if conf.LogEnabled() {
				l, err := monitor.OpenCSVLog(conf.OutputPath())
				if err != nil {
					return err
				}
				defer func() {
					if err := l.Close(); err != nil {
						logrus.Warnf("failed to close log: %v", err)
					}
				}()
				m.Log = l
				logrus.Infof("logging samples to %s", conf.OutputPath())
			}

			logrus.WithFields(conf.LogrusFields()).Info("starting battery monitor, press Ctrl+C to stop")

			return m.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.DurationVarP(&interval, "interval", "i", time.Second, "Time between samples.")
	f.BoolVar(&logToCSV, "log", false, "Append each sample to the CSV file.")
	f.StringVarP(&output, "output", "o", "battery_data.csv", "CSV file to append samples to.")
	f.BoolVar(&deltas, "deltas", false, "Show per-column deltas against the previous sample.")
	f.BoolVar(&thermal, "thermal", false, "Also read and show device thermal sensors.")
	f.StringVar(&adbPath, "adb", "", "Path to the adb executable (defaults to ./adb next to the working directory).")

	return cmd
}
