package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/angeloszaimis/l4-dispatch/internal/dispatcher"
	"github.com/angeloszaimis/l4-dispatch/internal/metrics"
	"github.com/angeloszaimis/l4-dispatch/internal/registry"
	"github.com/angeloszaimis/l4-dispatch/internal/strategy"
	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

// Handler implements the admin control plane.
type Handler struct {
	logger    *slog.Logger
	disp      *dispatcher.Dispatcher
	registry  *registry.Registry
	collector *metrics.Collector

	mutex        sync.RWMutex
	strategyName string
}

// TargetStatus is the JSON view of one target.
type TargetStatus struct {
	Name       string `json:"name"`
	Available  bool   `json:"available"`
	Healthy    bool   `json:"healthy"`
	Eligible   bool   `json:"eligible"`
	ActiveWork int    `json:"active_work"`
}

type targetRequest struct {
	Name string `json:"name"`
}

type strategyRequest struct {
	Type string `json:"type"`
}

type dispatchRequest struct {
	Work string `json:"work"`
}

// NewHandler creates the admin handler. collector may be nil; the /metrics
// route is only registered when it is present.
func NewHandler(
	logger *slog.Logger,
	disp *dispatcher.Dispatcher,
	reg *registry.Registry,
	collector *metrics.Collector,
	initialStrategy string,
) *Handler {
	return &Handler{
		logger:       logger,
		disp:         disp,
		registry:     reg,
		collector:    collector,
		strategyName: initialStrategy,
	}
}

// Router builds the mux router for every admin route.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/targets", h.listTargets).Methods(http.MethodGet)
	r.HandleFunc("/targets", h.addTarget).Methods(http.MethodPost)
	r.HandleFunc("/targets/{name}", h.removeTarget).Methods(http.MethodDelete)
	r.HandleFunc("/targets/{name}/drain", h.setAvailability(false)).Methods(http.MethodPost)
	r.HandleFunc("/targets/{name}/undrain", h.setAvailability(true)).Methods(http.MethodPost)
	r.HandleFunc("/strategy", h.getStrategy).Methods(http.MethodGet)
	r.HandleFunc("/strategy", h.setStrategy).Methods(http.MethodPut)
	r.HandleFunc("/dispatch", h.dispatch).Methods(http.MethodPost)

	if h.collector != nil {
		r.HandleFunc("/metrics", h.collector.Handler(h.StrategyName)).Methods(http.MethodGet)
	}

	return r
}

// StrategyName returns the name of the currently active strategy.
func (h *Handler) StrategyName() string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.strategyName
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listTargets(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()

	statuses := make([]TargetStatus, 0, len(all))
	for _, t := range all {
		statuses = append(statuses, statusOf(t))
	}

	h.writeJSON(w, http.StatusOK, statuses)
}

func (h *Handler) addTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		req.Name = uuid.NewString()
	}

	if existing := h.registry.Lookup(req.Name); existing != nil {
		h.writeJSON(w, http.StatusOK, statusOf(existing))
		return
	}

	t := target.New(req.Name)
	h.disp.AddTarget(t)

	h.logger.Info("Target added", slog.String("target", t.Name()))
	h.writeJSON(w, http.StatusCreated, statusOf(t))
}

func (h *Handler) removeTarget(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if t := h.registry.Lookup(name); t != nil {
		h.disp.RemoveTarget(t)
		h.logger.Info("Target removed", slog.String("target", name))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setAvailability(available bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]

		t := h.registry.Lookup(name)
		if t == nil {
			h.writeError(w, http.StatusNotFound, "unknown target")
			return
		}

		if changed := t.SetAvailable(available); changed {
			if available {
				h.logger.Info("Target undrained", slog.String("target", name))
			} else {
				h.logger.Info("Target drained", slog.String("target", name))
			}
		}

		h.writeJSON(w, http.StatusOK, statusOf(t))
	}
}

func (h *Handler) getStrategy(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, strategyRequest{Type: h.StrategyName()})
}

func (h *Handler) setStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	strat, err := strategy.FromName(req.Type)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.disp.SetStrategy(strat)

	h.mutex.Lock()
	h.strategyName = req.Type
	h.mutex.Unlock()

	h.logger.Info("Strategy swapped", slog.String("strategy", req.Type))
	h.writeJSON(w, http.StatusOK, req)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.disp.Dispatch(req.Work)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
	case errors.Is(err, dispatcher.ErrNoTargets), errors.Is(err, dispatcher.ErrNoneEligible):
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		// Target-level refusal: the race window between selection and
		// forward.
		h.writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("err", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, map[string]string{"error": message})
}

func statusOf(t *target.Target) TargetStatus {
	return TargetStatus{
		Name:       t.Name(),
		Available:  t.IsAvailable(),
		Healthy:    t.IsHealthy(),
		Eligible:   t.Eligible(),
		ActiveWork: t.ActiveWork(),
	}
}
