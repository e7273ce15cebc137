package bus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bottlemessage_bus_events_published_total",
	Help: "Total events delivered through the bus, ticks included",
})
