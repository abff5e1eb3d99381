package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(courseJobsTotal, courseJobDurationSec, courseQueueDepth) }

var courseJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "course_jobs_processed_total",
		Help: "Total number of course generation jobs processed, labeled by status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var courseJobDurationSec = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "course_job_duration_seconds",
		Help:    "Wall-clock duration of a full course generation pipeline run.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	},
)

var courseQueueDepth = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "course_queue_depth",
		Help: "Number of course jobs currently waiting in the FIFO queue.",
	},
)

func IncCourseJob(status string) {
	courseJobsTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveCourseJobDuration(seconds float64) {
	courseJobDurationSec.Observe(seconds)
}

func SetQueueDepth(n int) {
	courseQueueDepth.Set(float64(n))
}
