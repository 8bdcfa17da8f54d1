// Command mcp-server exposes the gosymbolic tools over HTTP for agent
// frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server -port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/njchilds90/gosymbolic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type server struct {
	logger   tmlog.Logger
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newServer(logger tmlog.Logger, reg prometheus.Registerer) *server {
	s := &server{
		logger: logger,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gosymbolic",
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and outcome.",
		}, []string{"tool", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gosymbolic",
			Name:      "tool_call_seconds",
			Help:      "Tool call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"tool"}),
	}
	reg.MustRegister(s.calls, s.duration)
	return s
}

// toolLabel keeps metric cardinality bounded by the tool list. Client
// supplied names outside it share one series.
func toolLabel(name string) string {
	if gosymbolic.KnownTool(name) {
		return name
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) handleTool(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic in /tool", "err", rec, "stack", string(debug.Stack()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req gosymbolic.ToolRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}

	start := time.Now()
	resp := gosymbolic.HandleToolCall(req)
	elapsed := time.Since(start)

	status := "ok"
	if resp.Error != "" {
		status = "error"
	}
	label := toolLabel(req.Tool)
	s.calls.WithLabelValues(label, status).Inc()
	s.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	s.logger.Debug("tool call", "tool", req.Tool, "status", status, "elapsed", elapsed)

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) routes(reg prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tool", s.handleTool)
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, gosymbolic.MCPToolSpec())
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	level := flag.String("log_level", "info", "log level, e.g. \"info\" or \"mcp:debug,*:error\"")
	flag.Parse()

	logger, err := tmflags.ParseLogLevel(*level, tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stdout)), "info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = logger.With("module", "mcp")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	s := newServer(logger, reg)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("gosymbolic MCP server listening", "addr", addr,
		"endpoints", "POST /tool, GET /schema, GET /health, GET /metrics")

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(reg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
