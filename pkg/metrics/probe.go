package metrics

import "time"

// ProbeStatus captures the outcome of the latest upstream reachability probe.
type ProbeStatus struct {
	Upstream  string    `json:"upstream"`
	Healthy   bool      `json:"healthy"`
	LatencyMs int64     `json:"latencyMs"`
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"error,omitempty"`
}

// IsZero reports whether no probe has run yet.
func (p ProbeStatus) IsZero() bool {
	return p.CheckedAt.IsZero()
}
