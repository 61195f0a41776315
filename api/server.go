package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sportsbook/metrics"
	"sportsbook/service"

	log "github.com/sirupsen/logrus"
)

// DefaultMaxBodyBytes bounds request bodies when Options.MaxBodyBytes is unset
const DefaultMaxBodyBytes = 16 << 10

// Options configures the HTTP API
type Options struct {
	// APIKey gates mutating requests when non-empty
	APIKey string
	// MaxBodyBytes rejects larger request bodies with InvalidInput; zero selects DefaultMaxBodyBytes
	MaxBodyBytes int64
	// Metrics records one observation per handled operation; nil disables it
	Metrics *metrics.Metrics
}

// Server exposes the betting services as a JSON HTTP API
type Server struct {
	wagers   service.WagerService
	accounts service.AccountService
	events   service.EventService
	opts     Options
	mux      *http.ServeMux
}

// NewServer wires every route onto a new mux
func NewServer(wagers service.WagerService, accounts service.AccountService, events service.EventService, opts Options) *Server {
	s := &Server{
		wagers:   wagers,
		accounts: accounts,
		events:   events,
		opts:     opts,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the mux wrapped in the request middleware
func (s *Server) Handler() http.Handler {
	limit := s.opts.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return requestID(logRequests(requireAPIKey(s.opts.APIKey, limitBody(limit, s.mux))))
}

// Start serves the API on addr in a background goroutine
func (s *Server) Start(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).WithField("addr", addr).Error("API server stopped")
		}
	}()

	log.WithField("addr", addr).Info("API server listening")
	return srv
}

// Shutdown stops srv, waiting up to timeout for in-flight requests
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// handlerFunc returns the status and body of a successful call, or an error
type handlerFunc func(r *http.Request) (int, any, error)

// handle registers h on pattern, recording it under operation
func (s *Server) handle(pattern, operation string, h handlerFunc) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status, body, err := h(r)
		if s.opts.Metrics != nil {
			s.opts.Metrics.ObserveOperation(operation, start, err)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, status, body)
	})
}

func (s *Server) routes() {
	s.handle("POST /bets", "add_bet", s.placeBet)
	s.handle("GET /bets", "list_bets", s.listBets)
	s.handle("GET /bets/{id}", "get_bet", s.getBet)
	s.handle("PUT /bets/{id}/status", "update_bet_status", s.updateBetStatus)
	s.handle("DELETE /bets/{id}", "delete_bet", s.deleteBet)

	s.handle("POST /users", "add_user", s.createAccount)
	s.handle("GET /users", "list_users", s.listAccounts)
	s.handle("GET /users/{id}", "get_user", s.getAccount)
	s.handle("PUT /users/{id}", "update_user", s.updateAccount)
	s.handle("DELETE /users/{id}", "delete_user", s.deleteAccount)
	s.handle("POST /users/{id}/deposit", "deposit_balance", s.deposit)
	s.handle("POST /users/{id}/withdraw", "withdraw_balance", s.withdraw)
	s.handle("GET /users/{id}/bets", "get_user_bets", s.userBets)

	s.handle("POST /events", "add_event", s.createEvent)
	s.handle("GET /events", "list_events", s.listEvents)
	s.handle("GET /events/{id}", "get_event", s.getEvent)
	s.handle("PUT /events/{id}", "update_event", s.updateEvent)
	s.handle("DELETE /events/{id}", "delete_event", s.deleteEvent)
	s.handle("PUT /events/{id}/status", "update_event_status", s.updateEventStatus)
}
