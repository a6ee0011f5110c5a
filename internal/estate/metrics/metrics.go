package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds estate lifecycle counters.
type Metrics struct {
	Created prometheus.Counter
	Updated prometheus.Counter
	Deleted prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Created: promauto.NewCounter(prometheus.CounterOpts{
			Name: "legado_estates_created_total",
			Help: "Total number of digital estate records created",
		}),
		Updated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "legado_estates_updated_total",
			Help: "Total number of digital estate record updates",
		}),
		Deleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "legado_estates_deleted_total",
			Help: "Total number of digital estate records deleted",
		}),
	}
}
