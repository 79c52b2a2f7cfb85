package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotblauer/trackreduce/catz"
	"github.com/rotblauer/trackreduce/codec/geojsoncodec"
	"github.com/rotblauer/trackreduce/codec/gpxcodec"
	"github.com/rotblauer/trackreduce/common"
	"github.com/rotblauer/trackreduce/params"
	"github.com/rotblauer/trackreduce/reducer"
	"github.com/rotblauer/trackreduce/simplifier"
)

func TestMain(m *testing.M) {
	reset := common.SlogResetLevel(slog.LevelWarn + 1)
	code := m.Run()
	reset()
	os.Exit(code)
}

func writeSineGPX(t *testing.T, path string, n int) {
	t.Helper()
	b := new(strings.Builder)
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
<trk><name>wiggle</name><trkseg>
`)
	for i := 0; i < n; i++ {
		lon := -114 + float64(i)*0.0005
		lat := 46.8 + 0.01*math.Sin(float64(i)/10)
		fmt.Fprintf(b, "<trkpt lat=\"%f\" lon=\"%f\"><ele>%d</ele></trkpt>\n", lat, lon, 1000+i)
	}
	b.WriteString("</trkseg></trk>\n<trk><name>short</name><trkseg>\n")
	b.WriteString(`<trkpt lat="46.0" lon="-113.0"></trkpt><trkpt lat="46.1" lon="-113.1"></trkpt>`)
	b.WriteString("\n</trkseg></trk>\n</gpx>\n")
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		t.Fatal(err)
	}
}

func testOptions(input, output string, maxPoints uint32, method simplifier.Method) reduceOptions {
	return reduceOptions{
		Input:   input,
		Output:  output,
		Config:  reducer.DefaultSolverConfig(maxPoints, method),
		Workers: 2,
		Codec:   *params.DefaultGeoJSONCodecConfig,
	}
}

func TestRunReduce_GPX(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ride.gpx")
	writeSineGPX(t, in, 400)
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0700); err != nil {
		t.Fatal(err)
	}

	for _, method := range []simplifier.Method{simplifier.RamerDouglasPeucker, simplifier.VisvalingamWhyatt} {
		t.Run(method.String(), func(t *testing.T) {
			if err := runReduce(context.Background(), testOptions(in, outDir, 60, method)); err != nil {
				t.Fatal(err)
			}
			f, err := os.Open(filepath.Join(outDir, "ride.gpx"))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			doc, err := gpxcodec.Decode(f)
			if err != nil {
				t.Fatal(err)
			}
			tracks := doc.Tracks()
			if len(tracks) != 2 {
				t.Fatalf("got %d tracks", len(tracks))
			}
			if n := tracks[0].PointCount(); n > 60 || n < 2 {
				t.Fatalf("wiggle has %d points", n)
			}
			if tracks[1].PointCount() != 2 || tracks[1].Name() != "short" {
				t.Fatalf("short track changed: %d points", tracks[1].PointCount())
			}
			first := tracks[0].Segments[0].First()
			if first.Elevation.Value() != 1000 {
				t.Fatalf("first point changed: %+v", first.GPXPoint)
			}
		})
	}
}

func TestRunReduce_GeoJSONGZ(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cats.json.gz")
	w, err := catz.CreateWriter(in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		for _, name := range []string{"rye", "ia"} {
			fmt.Fprintf(w, `{"type":"Feature","geometry":{"type":"Point","coordinates":[%f,%f]},"properties":{"Name":%q,"UnixTime":%d}}`+"\n",
				float64(i)*0.001, 0.01*math.Cos(float64(i)/7), name, 1700000000+i)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "small.ndjson")
	if err := runReduce(context.Background(), testOptions(in, out, 100, simplifier.RamerDouglasPeucker)); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	tracks, err := geojsoncodec.Decode(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 || tracks[0].Name() != "rye" || tracks[1].Name() != "ia" {
		t.Fatalf("got %d tracks", len(tracks))
	}
	for _, tr := range tracks {
		if n := tr.PointCount(); n > 100 || n < 2 {
			t.Fatalf("%s has %d points", tr.Name(), n)
		}
	}
}

func TestRunReduce_Errors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ride.gpx")
	writeSineGPX(t, in, 10)

	bad := testOptions(in, filepath.Join(dir, "x.gpx"), 5, simplifier.RamerDouglasPeucker)
	bad.Config.MaxIterations = 0
	if err := runReduce(context.Background(), bad); !errors.Is(err, reducer.ErrInvalidConfig) {
		t.Fatalf("got %v", err)
	}

	unknown := testOptions(filepath.Join(dir, "ride.kml"), filepath.Join(dir, "x.kml"), 5, simplifier.RamerDouglasPeucker)
	if err := runReduce(context.Background(), unknown); !errors.Is(err, errUnknownFormat) {
		t.Fatalf("got %v", err)
	}

	missing := testOptions(filepath.Join(dir, "nope.gpx"), filepath.Join(dir, "x.gpx"), 5, simplifier.RamerDouglasPeucker)
	if err := runReduce(context.Background(), missing); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path, format, want string
		wantErr            bool
	}{
		{"a.gpx", "", formatGPX, false},
		{"a.GPX.gz", "", formatGPX, false},
		{"master.json.gz", "", formatGeoJSON, false},
		{"a.ndjson", "", formatGeoJSON, false},
		{"a.geojson", "", formatGeoJSON, false},
		{"a.txt", "gpx", formatGPX, false},
		{"a.txt", "", "", true},
		{"a.gpx", "kml", "", true},
	}
	for _, c := range cases {
		got, err := detectFormat(c.path, c.format)
		if (err != nil) != c.wantErr || got != c.want {
			t.Errorf("detectFormat(%q, %q) = %q, %v", c.path, c.format, got, err)
		}
	}
}

func TestResolveOutput(t *testing.T) {
	dir := t.TempDir()
	if got := resolveOutput("/data/ride.gpx", dir); got != filepath.Join(dir, "ride.gpx") {
		t.Errorf("dir: got %s", got)
	}
	file := filepath.Join(dir, "out.gpx")
	if got := resolveOutput("/data/ride.gpx", file); got != file {
		t.Errorf("file: got %s", got)
	}
}

func TestRunInfo(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ride.gpx")
	writeSineGPX(t, in, 50)

	buf := new(bytes.Buffer)
	if err := runInfo(buf, in, "", true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"File: ride.gpx", "Tracks: 2", "Track: 'wiggle'", "Points: 50", "Track: 'short'", "Size:"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestReduceOptionsFromConfig(t *testing.T) {
	if _, err := reduceOptionsFromConfig("in.gpx"); err == nil {
		t.Fatal("expected an error without --points")
	}

	flags := reduceCmd.Flags()
	for name, value := range map[string]string{
		"points":    "500",
		"algorithm": "VW",
		"output":    "~/out.gpx",
		"workers":   "3",
	} {
		if err := flags.Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	o, err := reduceOptionsFromConfig("in.gpx")
	if err != nil {
		t.Fatal(err)
	}
	want := reducer.SolverConfig{
		MaxPoints:      500,
		MaxIterations:  params.DefaultMaxIterations,
		Method:         simplifier.VisvalingamWhyatt,
		InitialEpsilon: params.DefaultVWEpsilon,
	}
	if o.Config != want {
		t.Errorf("config: got %+v", o.Config)
	}
	if strings.HasPrefix(o.Output, "~") || filepath.Base(o.Output) != "out.gpx" {
		t.Errorf("output not expanded: %s", o.Output)
	}
	if o.Workers != 3 || o.Codec.TrackKey != "Name" {
		t.Errorf("options: %+v", o)
	}
}
