package ports

import "time"

// DatasetMetrics records dataset lifecycle measurements
type DatasetMetrics interface {
	ObserveTransform(duration time.Duration)
	ObserveSnapshot(groups, overlaps int)
	RecordReload(status string)
}

// NoopDatasetMetrics discards every measurement
type NoopDatasetMetrics struct{}

func (NoopDatasetMetrics) ObserveTransform(time.Duration) {}
func (NoopDatasetMetrics) ObserveSnapshot(int, int)       {}
func (NoopDatasetMetrics) RecordReload(string)            {}
