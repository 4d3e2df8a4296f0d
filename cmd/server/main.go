// Command server starts the workflow engine HTTP API server.
//
// Usage:
//
//	server [flags]
//
// Flags:
//
//	-addr string
//	    Server address (default ":8080")
//	-read-timeout duration
//	    HTTP read timeout (default 30s)
//	-write-timeout duration
//	    HTTP write timeout (default 30s)
//	-max-execution-time duration
//	    Stored in the engine config; no whole-run time limit is applied (default 5m)
//	-allow-http
//	    Allow the http node to make outbound network calls
//	-production
//	    Use production zero-trust defaults instead of development defaults
//
// The server exposes the following endpoints:
//
//	POST /run           - run a workflow to completion
//	GET  /health        - liveness, always {"status":"ok"}
//	GET  /health/live   - liveness probe
//	GET  /health/ready  - readiness probe (runs registered checks)
//	GET  /metrics       - Prometheus metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowforge/engine/pkg/config"
	"github.com/flowforge/engine/pkg/server"
)

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	maxExecutionTime := flag.Duration("max-execution-time", 5*time.Minute, "Workflow execution time stored in the engine config (no whole-run limit is applied)")
	allowHTTP := flag.Bool("allow-http", false, "Allow the http node to make outbound network calls")
	production := flag.Bool("production", false, "Use production zero-trust defaults instead of development defaults")

	flag.Parse()

	serverConfig := server.DefaultConfig()
	serverConfig.Address = *addr
	serverConfig.ReadTimeout = *readTimeout
	serverConfig.WriteTimeout = *writeTimeout

	engineConfig := config.Development()
	if *production {
		engineConfig = config.Production()
	}
	engineConfig.MaxExecutionTime = *maxExecutionTime
	if *allowHTTP {
		engineConfig.AllowHTTP = true
	}

	srv, err := server.New(serverConfig, engineConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("Starting workflow engine server on %s\n", *addr)
		fmt.Printf("Run endpoint:   http://localhost%s/run\n", *addr)
		fmt.Printf("Health check:   http://localhost%s/health\n", *addr)
		fmt.Printf("Liveness probe: http://localhost%s/health/live\n", *addr)
		fmt.Printf("Readiness probe: http://localhost%s/health/ready\n", *addr)
		fmt.Printf("Metrics:        http://localhost%s/metrics\n", *addr)
		fmt.Println("\nPress Ctrl+C to shutdown")

		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)
		fmt.Println("Shutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Server stopped")
	}
}
