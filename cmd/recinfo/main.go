// Command recinfo inspects recording directories.
//
// A recording directory holds a header.yaml with the recording metadata
// and a data.csv with the counter and sensor columns. recinfo prints a
// summary of each recording and can optionally downsample, locate the
// dominant frequency per axis and export the joined sensor table.
//
// Examples:
//
//	recinfo rec/
//	recinfo --downsample 4 rec/
//	recinfo --spectrum rec/
//	recinfo --export out.csv --index time --units rec/
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hearlab/imusession/config"
	"github.com/hearlab/imusession/dataset"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recinfo [flags] <recording-dir> ...",
		Short: "Inspect recorded sensor sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return run(args)
		},
	}

	cmd.Flags().String("config", "", "constants file overriding the datasheet defaults")
	cmd.Flags().Int("downsample", 1, "integer decimation factor applied before reporting")
	cmd.Flags().Bool("spectrum", false, "print the dominant frequency per axis")
	cmd.Flags().String("export", "", "write the joined sensor table to this CSV file")
	cmd.Flags().String("index", "", "index mode of the exported table (counter, time, utc, utc_datetime, local_datetime)")
	cmd.Flags().Bool("units", false, "suffix exported column names with their unit")
	cmd.Flags().Bool("verbose", false, "enable debug logging")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		logrus.Fatal(err)
	}

	return cmd
}

func run(dirs []string) error {
	if viper.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()

	if path := viper.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	for _, dir := range dirs {
		d, err := loadRecording(dir, cfg)
		if err != nil {
			return err
		}

		if factor := viper.GetInt("downsample"); factor > 1 {
			d, err = d.Downsample(factor, true)
			if err != nil {
				return err
			}
		}

		printSummary(d)

		if viper.GetBool("spectrum") {
			if err := printSpectrum(d); err != nil {
				return err
			}
		}

		if out := viper.GetString("export"); out != "" {
			if err := export(d, out); err != nil {
				return err
			}
		}
	}

	return nil
}

func printSummary(d *dataset.Dataset) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "recording\t%s\n", d.Path)
	fmt.Fprintf(tw, "sensor id\t%s\n", d.Info.SensorID)
	fmt.Fprintf(tw, "position\t%s\n", d.Info.SensorPosition)
	fmt.Fprintf(tw, "firmware\t%s\n", d.Info.VersionFirmware)
	fmt.Fprintf(tw, "start\t%s\n", d.Info.UTCDatetimeStart())
	fmt.Fprintf(tw, "duration\t%s\n", d.Info.Duration())
	fmt.Fprintf(tw, "rate\t%g Hz\n", d.Info.SamplingRateHz)
	fmt.Fprintf(tw, "samples\t%d\n", d.Size())

	for _, name := range d.ActiveSensors() {
		ds := d.Stream(name)
		fmt.Fprintf(tw, "stream\t%s: %d axes, %d samples, unit %s\n",
			name, ds.Channels(), ds.Len(), ds.Unit())
	}

	if err := tw.Flush(); err != nil {
		logrus.Errorf("recinfo: flush summary: %v", err)
	}
}

func printSpectrum(d *dataset.Dataset) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "stream\taxis\tpeak [Hz]\tpower\n")

	for _, name := range d.ActiveSensors() {
		ds := d.Stream(name)

		for axis, label := range ds.Axes() {
			freqs, power, err := ds.PowerSpectrum(axis)
			if err != nil {
				return err
			}

			// Skip the DC bin: the gravity offset dominates otherwise.
			peak := 1
			for i := 2; i < len(power); i++ {
				if power[i] > power[peak] {
					peak = i
				}
			}

			fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.3g\n", name, label, freqs[peak], power[peak])
		}
	}

	return tw.Flush()
}

func export(d *dataset.Dataset, path string) error {
	tbl, err := d.DataAsTable(nil, dataset.IndexMode(viper.GetString("index")), viper.GetBool("units"))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recinfo: create %s: %w", path, err)
	}
	defer f.Close()

	if err := tbl.WriteCSV(f); err != nil {
		return err
	}

	logrus.Infof("recinfo: wrote %d rows to %s", tbl.Rows(), path)

	return nil
}
