package metrics

import (
	"encoding/json"
	"net/http"
)

// Handler serves the current snapshot as JSON. strategyName is evaluated per
// request so a runtime strategy swap shows up immediately.
func (c *Collector) Handler(strategyName func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := c.metrics.Snapshot(strategyName())

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

// Snapshot exposes the aggregated counters for callers that are not going
// through HTTP (tests, the admin status endpoint).
func (c *Collector) Snapshot(strategy string) Snapshot {
	return c.metrics.Snapshot(strategy)
}
