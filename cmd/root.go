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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/trackreduce/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var optVerbosity string
var optQuiet bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   params.AppName,
	Short: "Reduce GPS tracks to a point budget",
	Long: `trackreduce simplifies GPX and GeoJSON tracks until each fits a maximum number of points.

It searches for the simplification tolerance (epsilon) that keeps as many points as possible
without going over the budget, using Ramer-Douglas-Peucker or Visvalingam-Whyatt.

Flags may also be set in a config file ($HOME/.trackreduce.yaml)
or as TRACKREDUCE_* environment variables, eg. TRACKREDUCE_POINTS=500.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+params.DefaultConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&optVerbosity, "verbosity", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&optQuiet, "quiet", "q", false, "Only log errors")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(params.DefaultConfigFileName, ".yaml"))
	}

	viper.SetEnvPrefix(params.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaultSlog installs a text handler on stderr at the level asked for by
// --verbosity, or error level with --quiet.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(optVerbosity)); err != nil {
		slog.Warn("Invalid verbosity, using info", "verbosity", optVerbosity)
		level = slog.LevelInfo
	}
	if optQuiet {
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With("cmd", cmd.Name()))
}

// expandPath expands a leading ~ in path.
func expandPath(path string) (string, error) {
	if path == "" || path == "-" {
		return path, nil
	}
	return homedir.Expand(path)
}
