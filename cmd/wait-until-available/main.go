package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/personal-crm/internal/config"
)

// Usage example on the command line:
// > CRM_SERVER_BASE_URL=http://localhost:8080 go run main.go
// > go run main.go -url=http://crm.internal:8080/healthz -timeout=2m
func main() {
	url := flag.String("url", "", "the health endpoint to poll, defaults to {server.base_url}/healthz")
	interval := flag.Duration("interval", 5*time.Second, "the time between two attempts")
	timeout := flag.Duration("timeout", 0, "give up after this long, 0 to wait forever")
	flag.Parse()

	if *url == "" {
		cfg, err := config.Load()
		if err != nil {
			slog.Error("could not load configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		*url = strings.TrimRight(cfg.Server.BaseURL, "/") + "/healthz"
	}

	client := &http.Client{Timeout: *interval}
	started := time.Now()
	for {
		res, err := client.Get(*url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				slog.Info("service is available", slog.String("url", *url), slog.Duration("waited", time.Since(started)))
				return
			}
			slog.Info("service is not ready", slog.String("url", *url), slog.String("status", res.Status))
		} else {
			slog.Info("service is not reachable", slog.String("url", *url), slog.String("error", err.Error()))
		}
		if *timeout > 0 && time.Since(started) >= *timeout {
			slog.Error("gave up waiting", slog.String("url", *url), slog.Duration("waited", time.Since(started)))
			os.Exit(1)
		}
		time.Sleep(*interval)
	}
}
