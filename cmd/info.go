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
	"io"
	"os"
	"path/filepath"

	"github.com/rotblauer/trackreduce/catz"
	"github.com/rotblauer/trackreduce/codec/geojsoncodec"
	"github.com/rotblauer/trackreduce/codec/gpxcodec"
	"github.com/rotblauer/trackreduce/info"
	"github.com/rotblauer/trackreduce/params"
	"github.com/spf13/cobra"
)

var optInfoVerbose bool
var optInfoFormat string

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info FILE...",
	Short: "Print track, segment and point counts and distances",
	Long: `
Info prints, for each file, its tracks with their segment and point counts
and distance in kilometers. Waypoints and routes are counted for GPX files.

With --verbose, the file size, track descriptions and points-per-segment
statistics are printed too.

Examples:

  trackreduce info ride.gpx ride.small.gpx
  trackreduce info -v master.json.gz
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)
		for _, arg := range args {
			path, err := expandPath(arg)
			if err != nil {
				return err
			}
			if err := runInfo(cmd.OutOrStdout(), path, optInfoFormat, optInfoVerbose); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVarP(&optInfoVerbose, "verbose", "v", false, "Display additional information")
	infoCmd.Flags().StringVar(&optInfoFormat, "format", "", "Input format: gpx or geojson (default by extension)")
}

func runInfo(w io.Writer, path, format string, verbose bool) error {
	format, err := detectFormat(path, format)
	if err != nil {
		return err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}
	r, err := catz.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	fi := info.FileInfo{
		Name: filepath.Base(path),
		Size: stat.Size(),
	}
	switch format {
	case formatGPX:
		doc, err := gpxcodec.Decode(r)
		if err != nil {
			return err
		}
		fi.Waypoints, fi.Routes = doc.Counts()
		fi.Tracks = info.SummarizeAll(doc.Tracks())
	case formatGeoJSON:
		tracks, err := geojsoncodec.Decode(r, params.DefaultGeoJSONCodecConfig)
		if err != nil {
			return err
		}
		fi.Tracks = info.SummarizeAll(tracks)
	}
	return info.Fprint(w, fi, verbose)
}
