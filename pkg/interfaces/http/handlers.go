// Package http exposes the filter calculation engine and work-order
// store over REST. Data-quality problems never become HTTP errors: a
// calculation response always carries a summary, warnings included.
// Only malformed requests are rejected.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fossawork/fossawork/pkg/filter"
	"github.com/fossawork/fossawork/pkg/infrastructure/events"
	"github.com/fossawork/fossawork/pkg/infrastructure/metrics"
	"github.com/fossawork/fossawork/pkg/infrastructure/repositories"
	"github.com/fossawork/fossawork/pkg/notify"
)

// API wires the calculator, store, catalog, and notifier into handlers.
// Catalog, dispatcher, and event store are optional.
type API struct {
	store      repositories.WorkOrderRepository
	calc       *filter.Calculator
	catalog    *filter.PartsCatalog
	dispatcher *notify.Dispatcher
	events     events.EventStore
}

// New creates the API over its collaborators.
func New(store repositories.WorkOrderRepository, calc *filter.Calculator, catalog *filter.PartsCatalog,
	dispatcher *notify.Dispatcher, eventStore events.EventStore) *API {
	return &API{
		store:      store,
		calc:       calc,
		catalog:    catalog,
		dispatcher: dispatcher,
		events:     eventStore,
	}
}

// Register attaches the API routes to a mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/filters/calculate", a.instrument("/api/filters/calculate", a.calculate))
	mux.HandleFunc("/api/workorders", a.instrument("/api/workorders", a.workOrders))
	mux.HandleFunc("/api/workorders/", a.instrument("/api/workorders/{id}", a.workOrderByPath))
	mux.HandleFunc("/health", a.health)
}

// envelope is the response shape every endpoint uses.
type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func respond(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   status < 400,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (a *API) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(rec, r)
		status := strconv.Itoa(rec.status)
		metrics.HTTPRequests.WithLabelValues(endpoint, r.Method, status).Inc()
		metrics.HTTPLatency.WithLabelValues(endpoint, r.Method, status).Observe(time.Since(start).Seconds())
	}
}

// calculate runs the engine over work orders supplied in the request
// body. The scraper or frontend posts the batch directly; nothing is
// persisted.
func (a *API) calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond(w, http.StatusMethodNotAllowed, nil, "method not allowed")
		return
	}

	var workOrders []filter.WorkOrder
	if err := json.NewDecoder(r.Body).Decode(&workOrders); err != nil {
		respond(w, http.StatusBadRequest, nil, fmt.Sprintf("malformed work order payload: %v", err))
		return
	}

	summary := a.runCalculation("", workOrders)
	respond(w, http.StatusOK, summary, "")
}

// workOrders handles the collection endpoints: list and snapshot push.
func (a *API) workOrders(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		respond(w, http.StatusBadRequest, nil, "user query parameter is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		orders, err := a.store.List(r.Context(), user)
		if err != nil {
			respond(w, http.StatusInternalServerError, nil, fmt.Sprintf("failed to list work orders: %v", err))
			return
		}
		respond(w, http.StatusOK, orders, "")

	case http.MethodPut:
		var orders []filter.WorkOrder
		if err := json.NewDecoder(r.Body).Decode(&orders); err != nil {
			respond(w, http.StatusBadRequest, nil, fmt.Sprintf("malformed work order payload: %v", err))
			return
		}
		if err := a.store.ReplaceSnapshot(r.Context(), user, orders); err != nil {
			respond(w, http.StatusInternalServerError, nil, fmt.Sprintf("failed to store snapshot: %v", err))
			return
		}
		if a.events != nil {
			for _, wo := range orders {
				_ = a.events.AppendEvent(wo.ID, events.NewWorkOrderScrapedEvent(user, wo))
			}
		}
		respond(w, http.StatusOK, map[string]int{"stored": len(orders)}, "")

	default:
		respond(w, http.StatusMethodNotAllowed, nil, "method not allowed")
	}
}

// workOrderByPath handles /api/workorders/{id} and
// /api/workorders/calculate.
func (a *API) workOrderByPath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/workorders/")
	parts := strings.Split(path, "/")
	if len(parts) < 1 || parts[0] == "" {
		respond(w, http.StatusNotFound, nil, "not found")
		return
	}

	if parts[0] == "calculate" {
		a.calculateStored(w, r)
		return
	}

	user := r.URL.Query().Get("user")
	if user == "" {
		respond(w, http.StatusBadRequest, nil, "user query parameter is required")
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodGet:
		wo, err := a.store.Get(r.Context(), user, id)
		if errors.Is(err, repositories.ErrNotFound) {
			respond(w, http.StatusNotFound, nil, "work order not found")
			return
		}
		if err != nil {
			respond(w, http.StatusInternalServerError, nil, fmt.Sprintf("failed to get work order: %v", err))
			return
		}
		respond(w, http.StatusOK, wo, "")

	case http.MethodDelete:
		err := a.store.Delete(r.Context(), user, id)
		if errors.Is(err, repositories.ErrNotFound) {
			respond(w, http.StatusNotFound, nil, "work order not found")
			return
		}
		if err != nil {
			respond(w, http.StatusInternalServerError, nil, fmt.Sprintf("failed to delete work order: %v", err))
			return
		}
		if a.events != nil {
			_ = a.events.AppendEvent(id, events.NewWorkOrderRemovedEvent(user, id))
		}
		respond(w, http.StatusOK, map[string]string{"deleted": id}, "")

	default:
		respond(w, http.StatusMethodNotAllowed, nil, "method not allowed")
	}
}

// calculateStored runs the engine over the user's stored snapshot,
// optionally dispatching notifications with the result.
func (a *API) calculateStored(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond(w, http.StatusMethodNotAllowed, nil, "method not allowed")
		return
	}
	user := r.URL.Query().Get("user")
	if user == "" {
		respond(w, http.StatusBadRequest, nil, "user query parameter is required")
		return
	}

	orders, err := a.store.List(r.Context(), user)
	if err != nil {
		respond(w, http.StatusInternalServerError, nil, fmt.Sprintf("failed to list work orders: %v", err))
		return
	}

	summary := a.runCalculation(user, orders)

	message := ""
	if r.URL.Query().Get("notify") == "true" && a.dispatcher != nil && a.dispatcher.Sinks() > 0 {
		payload := notify.BuildPayload(summary, a.catalog, orders)
		failed := a.dispatcher.Dispatch(r.Context(), payload)
		if a.events != nil {
			_ = a.events.AppendEvent("notify", events.NewNotificationSentEvent("all", payload.Subject, firstErr(failed)))
		}
		if len(failed) > 0 {
			message = fmt.Sprintf("%d notification channel(s) failed", len(failed))
		}
	}

	respond(w, http.StatusOK, summary, message)
}

func (a *API) runCalculation(user string, orders []filter.WorkOrder) *filter.FilterSummary {
	start := time.Now()
	summary := a.calc.Calculate(orders)
	metrics.CalculationsTotal.Inc()
	metrics.CalculationLatency.Observe(time.Since(start).Seconds())
	for _, warning := range summary.Warnings {
		metrics.WarningsTotal.WithLabelValues(string(warning.Kind)).Inc()
	}

	if a.events != nil {
		_ = a.events.AppendEvent("calculations", events.NewCalculationCompletedEvent(user, len(orders), summary))
		for _, warning := range summary.Warnings {
			_ = a.events.AppendEvent(warning.WorkOrderID, events.NewCalculationWarningEvent(warning))
		}
	}
	return summary
}

func firstErr(failed []notify.SinkError) error {
	if len(failed) == 0 {
		return nil
	}
	return failed[0]
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"}, "")
}
