package params

import "path/filepath"

const AppName = "trackreduce"

// EnvPrefix prefixes environment variables read by viper, eg. TRACKREDUCE_POINTS.
const EnvPrefix = "TRACKREDUCE"

// DefaultConfigFileName is looked up in the user's home directory.
const DefaultConfigFileName = "." + AppName + ".yaml"

// DefaultConfigFile returns the default config path under home.
func DefaultConfigFile(home string) string {
	return filepath.Join(home, DefaultConfigFileName)
}
