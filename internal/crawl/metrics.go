package crawl

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalFetches tracks direct HTTP fetch attempts.
	TotalFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_fetches_total",
		Help: "The total number of direct HTTP fetches attempted.",
	})
	// TotalFetchErrors tracks fetches that failed at the transport level.
	TotalFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_fetch_errors_total",
		Help: "The total number of fetches that failed with a transport error.",
	})
	// TotalRenders tracks browser render escalations.
	TotalRenders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_renders_total",
		Help: "The total number of pages escalated to the browser renderer.",
	})
	// PagesByClass tracks classifier verdicts.
	PagesByClass = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_pages_classified_total",
		Help: "Pages seen per quality class.",
	}, []string{"class"})
	// PagesByKind tracks listing/product/other discrimination.
	PagesByKind = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_pages_kind_total",
		Help: "Usable pages seen per page kind.",
	}, []string{"kind"})
	// RecordsEmitted tracks accepted product records.
	RecordsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_records_emitted_total",
		Help: "The total number of product records written to the sink.",
	})
	// RecordsRejected tracks filtered records per reason.
	RecordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_records_rejected_total",
		Help: "Records kept out of the catalog per reason.",
	}, []string{"reason"})
	// CapturesSaved tracks diagnostic page snapshots.
	CapturesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_captures_total",
		Help: "The total number of diagnostic page snapshots stored.",
	})
)
