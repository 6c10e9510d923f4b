package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"
)

// Fake llama-server used by subprocess tests. Accepts the flag subset
// the manager passes and serves /health. Behavior knobs via env:
// FAKE_LLAMA_LOADING_POLLS=N reports "loading" for the first N health
// checks; FAKE_LLAMA_NEVER_READY=1 reports "loading" forever.
func main() {
	var model string
	var port, ctxSize, ngl, threads int
	flag.StringVar(&model, "m", "", "model path")
	flag.IntVar(&port, "port", 0, "port")
	flag.IntVar(&ctxSize, "c", 0, "context size")
	flag.IntVar(&ngl, "ngl", 0, "gpu layers")
	flag.IntVar(&threads, "t", 0, "threads")
	flag.Parse()

	loadingPolls := 0
	if v := os.Getenv("FAKE_LLAMA_LOADING_POLLS"); v != "" {
		loadingPolls, _ = strconv.Atoi(v)
	}
	neverReady := os.Getenv("FAKE_LLAMA_NEVER_READY") == "1"

	var polls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if neverReady || n <= int64(loadingPolls) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"loading","slots_idle":0,"slots_processing":0}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","slots_idle":1,"slots_processing":0}`))
	})

	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("fake llama-server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
