package metrics

import "time"

// Recorder receives pipeline events and stage latencies. IncCounter is
// called once per outcome with "network", "operation" and "status" labels;
// ObserveLatency once per stage (load_account, base_fee, simulate, sign,
// submit, pipeline) with "network".
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
