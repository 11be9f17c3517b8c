package handlers

import (
	"fmt"
	"net/http"

	"talentflow/internal/events"
	"talentflow/internal/http/metrics"
)

type MetricsHandler struct {
	collector *metrics.Collector
	emitter   *events.Emitter
}

func NewMetricsHandler(collector *metrics.Collector, emitter *events.Emitter) *MetricsHandler {
	return &MetricsHandler{collector: collector, emitter: emitter}
}

func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	requests, errors := h.collector.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "http_requests_total %d\n", requests)
	fmt.Fprintf(w, "http_errors_total %d\n", errors)
	fmt.Fprintf(w, "events_degraded_total %d\n", h.emitter.Degraded())
}
