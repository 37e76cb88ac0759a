package zeta

import "github.com/prometheus/client_golang/prometheus"

// FetchOps counts HTTP fetches of the manifest and data files, by resource
// and outcome.
var FetchOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zeta_fetch_ops",
		Help: "The number of HTTP fetches made against the LMFDB archive.",
	},
	[]string{"resource", "success"},
)

// IndexOps counts lookups made against the SQLite index.
var IndexOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zeta_index_ops",
		Help: "The number of queries made against the zero index.",
	},
	[]string{"query", "success"},
)

// ZerosStreamed counts zeros actually delivered to a Consumer.
var ZerosStreamed = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "zeta_zeros_streamed",
		Help: "The number of zeros delivered to a Consumer.",
	},
)
