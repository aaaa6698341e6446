//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/fulfillment"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

const shutdownGrace = 30 * time.Second

// OrderDirectory is the order-facing slice of the repository used by the ops
// API.
type OrderDirectory interface {
	Create(ctx context.Context, order *repository.Order) error
	GetByID(ctx context.Context, id string) (*repository.Order, error)
	Cancel(ctx context.Context, id string) error
	StatusSummary(ctx context.Context, days int) ([]repository.StatusCount, error)
}

// AppointmentDirectory exposes the calendar for reads and cancellations.
type AppointmentDirectory interface {
	GetByOrderID(ctx context.Context, orderID string) (*repository.Appointment, error)
	CancelByOrderID(ctx context.Context, orderID string) error
}

// NotificationDirectory answers delivery-token lookups.
type NotificationDirectory interface {
	QueryStatus(ctx context.Context, token string) (repository.DeliveryState, error)
}

// Pipeline is the fulfillment loop as seen from the ops API.
type Pipeline interface {
	Drain(ctx context.Context) fulfillment.Outcome
	Health() fulfillment.HealthSnapshot
}

// CredentialStore validates admin credentials for the mutating endpoints.
type CredentialStore interface {
	Validate(ctx context.Context, username, password string) (bool, error)
}

type Server struct {
	orders        OrderDirectory
	appointments  AppointmentDirectory
	notifications NotificationDirectory
	pipeline      Pipeline
	creds         CredentialStore
	server        *http.Server
}

func New(orders OrderDirectory, appointments AppointmentDirectory, notifications NotificationDirectory, pipeline Pipeline, creds CredentialStore) *Server {
	return &Server{
		orders:        orders,
		appointments:  appointments,
		notifications: notifications,
		pipeline:      pipeline,
		creds:         creds,
	}
}

// Run serves the ops API until the context ends, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context, port int) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Ops server starting on port %d", port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := s.server.Shutdown(sctx); err != nil {
			return err
		}
		log.Println("HTTP server shutdown completed")
		return <-errCh
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()
	router.Use(s.logMiddleware)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	router.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	router.HandleFunc("/notifications/{token}", s.handleNotificationStatus).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.Handle("/run", s.basicAuthMiddleware(http.HandlerFunc(s.handleRun))).Methods(http.MethodPost)
	router.Handle("/orders/{id}/cancel", s.basicAuthMiddleware(http.HandlerFunc(s.handleCancelOrder))).Methods(http.MethodPost)

	return router
}

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		valid, err := s.creds.Validate(r.Context(), username, password)
		if err != nil || !valid {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.pipeline.Health()
	respondJSON(w, http.StatusOK, map[string]string{
		"status":       "ok",
		"last_outcome": string(snap.LastOutcome),
	})
}

// handleStatus exposes the full pipeline snapshot, counters included.
// handleHealth stays cheap for probes; this one is for humans.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.pipeline.Health())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days := 30
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		var err error
		days, err = strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'days' parameter")
			return
		}
	}

	summary, err := s.orders.StatusSummary(r.Context(), days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":     days,
		"statuses": summary,
	})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var orderRequest struct {
		ID                  string `json:"id"`
		CustomerName        string `json:"customer_name"`
		CustomerEmail       string `json:"customer_email"`
		DeliveryAddress     string `json:"delivery_address"`
		RequestedDate       string `json:"requested_date"`
		TimePreference      string `json:"time_preference"`
		SpecialInstructions string `json:"special_instructions"`
		Items               []struct {
			Name      string  `json:"name"`
			Quantity  int     `json:"quantity"`
			UnitPrice float64 `json:"unit_price"`
		} `json:"items"`
	}

	if err := json.NewDecoder(r.Body).Decode(&orderRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if orderRequest.ID == "" || orderRequest.CustomerName == "" || orderRequest.CustomerEmail == "" {
		respondError(w, http.StatusBadRequest, "Missing id, customer_name or customer_email")
		return
	}
	if len(orderRequest.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Order needs at least one item")
		return
	}

	date, err := time.Parse("2006-01-02", orderRequest.RequestedDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	pref := repository.TimePreference(orderRequest.TimePreference)
	if pref == "" {
		pref = repository.PreferenceAny
	}
	if !pref.Known() {
		respondError(w, http.StatusBadRequest, "Invalid time_preference. Use morning, afternoon, evening or any")
		return
	}

	order := repository.Order{
		ID:                  orderRequest.ID,
		CustomerName:        orderRequest.CustomerName,
		CustomerEmail:       orderRequest.CustomerEmail,
		DeliveryAddress:     orderRequest.DeliveryAddress,
		RequestedDate:       date,
		TimePreference:      pref,
		Status:              repository.StatusPlaced,
		SpecialInstructions: orderRequest.SpecialInstructions,
	}
	for _, item := range orderRequest.Items {
		if item.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "Item quantities must be positive")
			return
		}
		order.Items = append(order.Items, repository.OrderItem{
			OrderID:   order.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
		order.TotalAmount += float64(item.Quantity) * item.UnitPrice
	}

	if err := s.orders.Create(r.Context(), &order); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			respondError(w, http.StatusConflict, "Order already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Order placed successfully",
		"id":      order.ID,
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "Missing order ID")
		return
	}

	order, err := s.orders.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	response := struct {
		*repository.Order
		Appointment *repository.Appointment `json:"appointment,omitempty"`
	}{Order: order}

	if appt, err := s.appointments.GetByOrderID(r.Context(), orderID); err == nil {
		response.Appointment = appt
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "Missing order ID")
		return
	}

	if err := s.orders.Cancel(r.Context(), orderID); err != nil {
		switch {
		case errors.Is(err, repository.ErrObjectNotFound):
			respondError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, repository.ErrClaimLost):
			respondError(w, http.StatusConflict, "Order can no longer be cancelled")
		default:
			respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		}
		return
	}

	if err := s.appointments.CancelByOrderID(r.Context(), orderID); err != nil {
		log.Printf("Order %s cancelled but its appointment was not: %v", orderID, err)
		respondError(w, http.StatusInternalServerError, "Order cancelled, appointment cleanup failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Order cancelled and delivery slot freed",
	})
}

func (s *Server) handleNotificationStatus(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		respondError(w, http.StatusBadRequest, "Missing delivery token")
		return
	}

	state, err := s.notifications.QueryStatus(r.Context(), token)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"state": string(state),
	})
}

// handleRun triggers one synchronous drain of the order queue. The response
// carries the outcome that stopped the pass.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	out := s.pipeline.Drain(r.Context())
	respondJSON(w, http.StatusOK, out)
}
