// Package metrics declares the Prometheus instruments of the service,
// registered on the default registerer and exposed through /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// LinksWrapped counts links that completed the wrapping pipeline with a
	// created campaign.
	LinksWrapped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redirectadmin_links_wrapped_total",
		Help: "Number of links successfully wrapped into redirect campaigns.",
	})

	// CampaignFailures counts links skipped because campaign creation failed.
	CampaignFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redirectadmin_campaign_failures_total",
		Help: "Number of links skipped due to tracker campaign creation failures.",
	})

	// ShortenFailures counts individual shorten calls that failed, labeled by
	// shortening service.
	ShortenFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redirectadmin_shorten_failures_total",
		Help: "Number of failed shorten calls by shortening service.",
	}, []string{"service"})

	// BilledUnits counts successfully shortened URLs that were charged to a
	// user balance.
	BilledUnits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redirectadmin_billed_units_total",
		Help: "Number of shortened URLs billed against user balances.",
	})
)
