// Package metrics exposes prometheus metrics for timetable requests and SIS calls.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/myday/core/timetable"
)

type Metrics struct {
	gatherer  prometheus.Gatherer
	requests  *prometheus.CounterVec
	sisCalls  *prometheus.HistogramVec
	sisErrors *prometheus.CounterVec
}

// New registers the metrics on a fresh registry (with Go & process collectors).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "myday",
			Name:      "timetable_requests_total",
			Help:      "Timetable requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		sisCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "myday",
			Name:      "sis_call_duration_seconds",
			Help:      "Duration of SIS calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call"}),
		sisErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "myday",
			Name:      "sis_call_errors_total",
			Help:      "Failed SIS calls.",
		}, []string{"call"}),
	}
	reg.MustRegister(m.requests, m.sisCalls, m.sisErrors)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest counts a timetable request; outcome is one of ok, absent, unavailable, error.
func (m *Metrics) ObserveRequest(endpoint, outcome string) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) observe(call string, start time.Time, err error) {
	m.sisCalls.WithLabelValues(call).Observe(time.Since(start).Seconds())
	if err != nil {
		m.sisErrors.WithLabelValues(call).Inc()
	}
}

// InstrumentSource times every call made to src.
func (m *Metrics) InstrumentSource(src timetable.Source) timetable.Source {
	return &instrumentedSource{src: src, m: m}
}

type instrumentedSource struct {
	src timetable.Source
	m   *Metrics
}

func (s *instrumentedSource) FetchRawPeriods(ctx context.Context, userID string, role timetable.Role, date time.Time) ([]timetable.RawPeriod, error) {
	start := time.Now()
	rows, err := s.src.FetchRawPeriods(ctx, userID, role, date)
	s.m.observe("raw_periods", start, err)
	return rows, err
}

func (s *instrumentedSource) FetchTermWindow(ctx context.Context) (timetable.TermWindow, error) {
	start := time.Now()
	w, err := s.src.FetchTermWindow(ctx)
	if err == timetable.ErrTermNotFound {
		s.m.observe("term_window", start, nil)
		return w, err
	}
	s.m.observe("term_window", start, err)
	return w, err
}

func (s *instrumentedSource) FetchCourseMapping(ctx context.Context, classCodes []string) ([]timetable.CourseMapping, error) {
	start := time.Now()
	mappings, err := s.src.FetchCourseMapping(ctx, classCodes)
	s.m.observe("course_mapping", start, err)
	return mappings, err
}
