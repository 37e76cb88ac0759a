package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VictorVanWeyenberg/zeta"
)

func init() {
	prometheus.MustRegister(zeta.FetchOps)
	prometheus.MustRegister(zeta.IndexOps)
	prometheus.MustRegister(zeta.ZerosStreamed)
}

// metrics starts the metrics server on addr. The zeta counters it serves
// are registered with Prometheus in init.
func metrics(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(rw http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/" {
			fmt.Fprintln(rw, "Hello, I'm zeta-stream's metrics server! Who are you?")
		} else {
			http.NotFound(rw, req)
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := http.Server{
		Addr:    addr,
		Handler: mux,
	}
	log.Fatal(server.ListenAndServe())
}
