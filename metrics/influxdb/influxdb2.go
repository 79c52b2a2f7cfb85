package influxdb

import (
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rotblauer/trackreduce/params"
	"github.com/rotblauer/trackreduce/reducer"
	"sync"
	"time"
)

// Enabled reports whether an InfluxDB URL is configured.
func Enabled() bool {
	return params.INFLUXDB_URL != ""
}

// ExportOutcomes posts one "reduction" point per track to an InfluxDB Write API.
// The Write API buffers and flushes; the last error encountered is returned.
func ExportOutcomes(source string, config reducer.SolverConfig, outcomes []reducer.Outcome) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.INFLUXDB_URL, params.INFLUXDB_TOKEN, opts)
	writeAPI := client.WriteAPI(params.INFLUXDB_ORG, params.INFLUXDB_BUCKET)

	// Errors must be read before any writes, and drained, or the writer blocks.
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	now := time.Now()
	for _, o := range outcomes {
		writeAPI.WritePoint(outcomePoint(now, source, config, o))
	}
	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}

func outcomePoint(at time.Time, source string, config reducer.SolverConfig, o reducer.Outcome) *write.Point {
	p := influxdb2.NewPointWithMeasurement("reduction").
		SetTime(at).
		AddTag("source", source).
		AddTag("track", o.Name).
		AddTag("method", config.Method.String()).
		AddField("index", o.Index).
		AddField("points_in", o.PointsIn).
		AddField("points_out", o.PointsOut).
		AddField("max_points", int64(config.MaxPoints)).
		AddField("skipped", o.Skipped).
		AddField("satisfied", o.Satisfied())
	if o.Result != nil {
		p.AddField("epsilon", o.Result.Epsilon).
			AddField("iterations", int64(o.Result.Iterations))
	}
	if o.Err != nil {
		p.AddField("error", o.Err.Error())
	}
	return p
}
