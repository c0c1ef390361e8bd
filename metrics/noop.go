package metrics

import "time"

// NoopRecorder drops every event. It is the default until WithMetrics is used.
type NoopRecorder struct{}

func (NoopRecorder) IncCounter(string, map[string]string)                    {}
func (NoopRecorder) ObserveLatency(string, time.Duration, map[string]string) {}
