package params

import (
	"compress/gzip"
	"os"
)

const GZipSuffix = ".gz"

var DefaultGZipCompressionLevel = gzip.BestCompression

// InfluxDB settings for exporting reduction summaries.
// Export is skipped when INFLUXDB_URL is empty.
var (
	INFLUXDB_URL    = os.Getenv("INFLUXDB_URL")
	INFLUXDB_TOKEN  = os.Getenv("INFLUXDB_TOKEN")
	INFLUXDB_ORG    = os.Getenv("INFLUXDB_ORG")
	INFLUXDB_BUCKET = os.Getenv("INFLUXDB_BUCKET")
)
