// internal/app/system/metrics/recorder.go
package metrics

import "time"

// Batch load modes reported by IncBatchLoad.
const (
	ModeBatch    = "batch"
	ModeFallback = "fallback"
)

// Recorder receives dashboard telemetry. Implementations must be safe for
// concurrent use; fallback fetches report from many goroutines at once.
type Recorder interface {
	ObserveAPICall(endpoint string, d time.Duration, outcome string)
	IncBatchLoad(mode string)
	IncFallbackFetch(success bool)
	IncCacheLookup(hit bool)
	SetActiveSessions(n int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveAPICall(string, time.Duration, string) {}
func (NoopRecorder) IncBatchLoad(string) {}
func (NoopRecorder) IncFallbackFetch(bool) {}
func (NoopRecorder) IncCacheLookup(bool) {}
func (NoopRecorder) SetActiveSessions(int) {}
