package main

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/l4-dispatch/internal/admin"
	"github.com/angeloszaimis/l4-dispatch/internal/dispatcher"
	"github.com/angeloszaimis/l4-dispatch/internal/metrics"
	"github.com/angeloszaimis/l4-dispatch/internal/registry"
)

func setupRouter(
	log *slog.Logger,
	disp *dispatcher.Dispatcher,
	reg *registry.Registry,
	collector *metrics.Collector,
	strategyType string,
) http.Handler {
	handler := admin.NewHandler(log, disp, reg, collector, strategyType)
	return handler.Router()
}
