package aqt

import "github.com/prometheus/client_golang/prometheus"

// Metric label values for job outcome.
const (
	outcomeFinished  = "finished"
	outcomeFailed    = "failed"
	outcomeCancelled = "cancelled"
	outcomeTimedOut  = "timed_out"
)

var (
	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qoqo_aqt_jobs_total",
			Help: "Total number of circuits executed on AQT resources, by outcome.",
		},
		[]string{"resource", "status"},
	)

	submitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qoqo_aqt_submit_seconds",
			Help:    "Duration of the job submission request, in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	jobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qoqo_aqt_job_seconds",
			Help:    "Duration from translation to terminal job status, in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	pollsPerJob = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qoqo_aqt_polls_per_job",
			Help:    "Number of result queries issued per submitted job.",
			Buckets: []float64{1, 2, 5, 10, 20, 50, MaxPolls},
		},
	)

	activeJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "qoqo_aqt_active_jobs",
			Help: "Number of AQT jobs currently submitted and not yet terminal.",
		},
	)
)

func init() {
	prometheus.MustRegister(jobsTotal)
	prometheus.MustRegister(submitDuration)
	prometheus.MustRegister(jobDuration)
	prometheus.MustRegister(pollsPerJob)
	prometheus.MustRegister(activeJobs)

	for _, res := range []string{ResourceSimulator, ResourceNoisySimulator} {
		for _, status := range []string{outcomeFinished, outcomeFailed, outcomeCancelled, outcomeTimedOut} {
			jobsTotal.WithLabelValues(res, status)
		}
	}
}
