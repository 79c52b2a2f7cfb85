/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotblauer/trackreduce/catz"
	"github.com/rotblauer/trackreduce/codec/geojsoncodec"
	"github.com/rotblauer/trackreduce/codec/gpxcodec"
	"github.com/rotblauer/trackreduce/common"
	"github.com/rotblauer/trackreduce/metrics"
	"github.com/rotblauer/trackreduce/metrics/influxdb"
	"github.com/rotblauer/trackreduce/params"
	"github.com/rotblauer/trackreduce/reducer"
	"github.com/rotblauer/trackreduce/simplifier"
	"github.com/rotblauer/trackreduce/types/track"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	formatGPX     = "gpx"
	formatGeoJSON = "geojson"
)

var errUnknownFormat = errors.New("unknown file format")

var optMethod = simplifier.RamerDouglasPeucker

// reduceCmd represents the reduce command
var reduceCmd = &cobra.Command{
	Use:   "reduce INPUT",
	Short: "Reduce every track in a file to at most N points",
	Long: `
Reduce simplifies each track of INPUT that has more than --points points,
and writes the result to --output. Tracks already within budget are copied as-is.

For each track, the tolerance is searched for: first doubled from 2 x --epsilon until
the track fits, then bisected toward the budget. Every trial simplifies all of the
track's segments at the same epsilon. The search stops after --iterations trials;
if the track still doesn't fit, a warning is logged and the smallest candidate is kept.

Formats are picked by extension (.gpx, .geojson, .json, .ndjson; optionally .gz),
or by --format. GeoJSON input is newline-delimited point features, grouped into
tracks by --track-key and split into segments on time gaps wider than --segment-gap.

Flags:

  --output, -o      Output file, or a directory to write INPUT's file name into.
  --points, -n      Maximum points per track.
  --iterations, -i  Maximum trials per track. (Default is 20.)
  --algorithm, -a   rdp (Ramer-Douglas-Peucker) or vw (Visvalingam-Whyatt). (Default is rdp.)
  --epsilon, -e     Starting epsilon. (Default is 0.001 for rdp, 0.0001 for vw.)
  --workers         Tracks reduced in parallel. (Default is 1.)
  --log-trials      Log every trial.

Examples:

  trackreduce reduce ride.gpx -o ride.small.gpx -n 500
  trackreduce reduce master.json.gz -o out/ -n 2000 -a vw --workers 8
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)

		o, err := reduceOptionsFromConfig(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := common.InterruptContext(context.Background())
		defer cancel()
		return runReduce(ctx, o)
	},
}

func init() {
	rootCmd.AddCommand(reduceCmd)
	addReduceFlags(reduceCmd.Flags())
	if err := viper.BindPFlags(reduceCmd.Flags()); err != nil {
		panic(err)
	}
}

func addReduceFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Output file or directory")
	flags.Uint32P("points", "n", 0, "Maximum points per track")
	flags.Uint32P("iterations", "i", params.DefaultMaxIterations, "Maximum trials per track")
	flags.VarP(&optMethod, "algorithm", "a", "Simplification algorithm: rdp or vw")
	flags.Float64P("epsilon", "e", 0, "Starting epsilon (default depends on algorithm)")
	flags.Int("workers", params.DefaultWorkers, "Tracks reduced in parallel")
	flags.Bool("log-trials", false, "Log every trial")
	flags.String("format", "", "Input format: gpx or geojson (default by extension)")
	flags.String("track-key", params.DefaultGeoJSONCodecConfig.TrackKey, "GeoJSON property grouping points into tracks")
	flags.Duration("segment-gap", params.DefaultGeoJSONCodecConfig.SegmentGap, "GeoJSON time gap starting a new segment (0 disables)")
}

type reduceOptions struct {
	Input     string
	Output    string
	Format    string
	Config    reducer.SolverConfig
	Workers   int
	LogTrials bool
	Codec     params.GeoJSONCodecConfig
}

func reduceOptionsFromConfig(input string) (reduceOptions, error) {
	o := reduceOptions{}
	if !viper.IsSet("points") {
		return o, errors.New("--points is required")
	}
	method, err := simplifier.ParseMethod(viper.GetString("algorithm"))
	if err != nil {
		return o, err
	}
	epsilon := params.DefaultEpsilon(method)
	if viper.IsSet("epsilon") {
		epsilon = viper.GetFloat64("epsilon")
	}

	if o.Input, err = expandPath(input); err != nil {
		return o, err
	}
	if o.Output, err = expandPath(viper.GetString("output")); err != nil {
		return o, err
	}
	if o.Output == "" {
		return o, errors.New("--output is required")
	}
	o.Format = viper.GetString("format")
	o.Config = reducer.SolverConfig{
		MaxPoints:      viper.GetUint32("points"),
		MaxIterations:  viper.GetUint32("iterations"),
		Method:         method,
		InitialEpsilon: epsilon,
	}
	o.Workers = viper.GetInt("workers")
	o.LogTrials = viper.GetBool("log-trials")
	o.Codec = params.GeoJSONCodecConfig{
		TrackKey:   viper.GetString("track-key"),
		SegmentGap: viper.GetDuration("segment-gap"),
	}
	return o, nil
}

// detectFormat returns format if given, else guesses from the extension of path.
func detectFormat(path, format string) (string, error) {
	if format != "" {
		switch f := strings.ToLower(format); f {
		case formatGPX, formatGeoJSON:
			return f, nil
		}
		return "", fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
	switch strings.ToLower(filepath.Ext(catz.TrimGZ(path))) {
	case ".gpx":
		return formatGPX, nil
	case ".geojson", ".json", ".ndjson":
		return formatGeoJSON, nil
	}
	return "", fmt.Errorf("%w: %s (use --format)", errUnknownFormat, path)
}

// resolveOutput appends the input file name when output is a directory.
func resolveOutput(input, output string) string {
	if fi, err := os.Stat(output); err == nil && fi.IsDir() {
		return filepath.Join(output, filepath.Base(input))
	}
	return output
}

func runReduce(ctx context.Context, o reduceOptions) error {
	if err := o.Config.Validate(); err != nil {
		return err
	}
	format, err := detectFormat(o.Input, o.Format)
	if err != nil {
		return err
	}
	output := resolveOutput(o.Input, o.Output)

	r, err := catz.OpenReader(o.Input)
	if err != nil {
		return err
	}
	defer r.Close()

	m := metrics.NewSolverMetrics()
	var outcomes []reducer.Outcome
	var reduceErr error
	var encode func(w io.Writer) error

	switch format {
	case formatGPX:
		doc, err := gpxcodec.Decode(r)
		if err != nil {
			return err
		}
		var reduced []*gpxcodec.Track
		reduced, outcomes, reduceErr = reduceAll(ctx, o, m, doc.Tracks())
		if err := doc.SetTracks(reduced); err != nil {
			return err
		}
		encode = doc.Encode
	case formatGeoJSON:
		tracks, err := geojsoncodec.Decode(r, &o.Codec)
		if err != nil {
			return err
		}
		var reduced []*geojsoncodec.Track
		reduced, outcomes, reduceErr = reduceAll(ctx, o, m, tracks)
		encode = func(w io.Writer) error {
			return geojsoncodec.Encode(w, reduced)
		}
	}

	w, err := catz.CreateWriter(output)
	if err != nil {
		return err
	}
	if err := encode(w); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	m.Log(slog.Default())
	if s := m.Summary(); s.Unsatisfied > 0 {
		slog.Warn("Some tracks still exceed the point budget, consider increasing --iterations",
			"tracks", s.Unsatisfied, "max", o.Config.MaxPoints)
	}
	slog.Info("Wrote reduced tracks", "output", output, "format", format)

	if influxdb.Enabled() {
		if err := influxdb.ExportOutcomes(filepath.Base(o.Input), o.Config, outcomes); err != nil {
			slog.Error("Failed to export to InfluxDB", "error", err)
		}
	}
	return reduceErr
}

// reduceAll runs the reducer over tracks, counting into m.
// Failed tracks come back unchanged alongside the joined error.
func reduceAll[P track.Locator](ctx context.Context, o reduceOptions, m *metrics.SolverMetrics, tracks []*track.Track[P]) ([]*track.Track[P], []reducer.Outcome, error) {
	slog.Info("Found tracks", "count", len(tracks))
	r := &reducer.Reducer[P]{
		Config:    o.Config,
		Observer:  m.Observer(),
		Workers:   o.Workers,
		LogTrials: o.LogTrials,
	}
	out, outcomes, err := r.ReduceTracks(ctx, tracks)
	m.Record(outcomes...)
	if err != nil {
		slog.Error("Some tracks were not reduced", "error", err)
	}
	return out, outcomes, err
}
