// Command nexus-host runs the Nexus extensibility host: it registers the
// builtin product plugins, performs the activation sweep, and serves the
// operator status API.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/config"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/host"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/plugin"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/plugins/bnpl"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/plugins/creditcard"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/plugins/rewards"
)

func main() {
	configPath := flag.String("config", "", "path to TOML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	logger := newLogger(cfg.Logging)

	h := host.New(cfg, logger, prometheus.DefaultRegisterer)

	if cfg.Plugins.Enabled {
		for _, desc := range builtins() {
			if err := h.Register(desc); err != nil {
				logger.WithError(err).Fatal("Plugin registration failed")
			}
		}
	}

	h.Start()
	defer h.Shutdown()

	report := h.Activate(context.Background())
	for _, res := range report {
		if res.Err != nil {
			logger.WithFields(log.Fields{
				"plugin": res.PluginID,
				"error":  res.Err,
			}).Warn("Plugin failed to activate, continuing without it")
		}
	}

	router := host.NewStatusHandler(h).Routes()
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    cfg.Server.Bind,
		Handler: router,
	}

	go func() {
		logger.WithField("bind", cfg.Server.Bind).Info("Status API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Status API failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("Status API shutdown failed")
	}
}

func builtins() []*plugin.Descriptor {
	return []*plugin.Descriptor{
		creditcard.Descriptor(),
		bnpl.Descriptor(),
		rewards.Descriptor(),
	}
}

func newLogger(cfg config.LoggingConfig) *log.Logger {
	logger := log.New()
	if level, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	return logger
}
