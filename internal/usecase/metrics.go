package usecase

import "time"

// Metrics receives ingestion and attribution counters.
type Metrics interface {
	IngestRow(kind Kind, accepted bool)
	IngestRejection(kind Kind, reason string)
	IngestDuration(kind Kind, elapsed time.Duration)
	AttributionAmbiguous()
}

type nopMetrics struct{}

func (nopMetrics) IngestRow(Kind, bool)               {}
func (nopMetrics) IngestRejection(Kind, string)       {}
func (nopMetrics) IngestDuration(Kind, time.Duration) {}
func (nopMetrics) AttributionAmbiguous()              {}
