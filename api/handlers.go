package api

import (
	"net/http"

	"sportsbook/models"
)

type statusRequest struct {
	Status string `json:"status"`
}

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

// wagerStatus accepts any casing; unknown names pass through for the service to reject
func wagerStatus(raw string) models.WagerStatus {
	if status, err := models.ParseWagerStatus(raw); err == nil {
		return status
	}
	return models.WagerStatus(raw)
}

func eventStatus(raw string) models.EventStatus {
	if status, err := models.ParseEventStatus(raw); err == nil {
		return status
	}
	return models.EventStatus(raw)
}

// Bets

func (s *Server) placeBet(r *http.Request) (int, any, error) {
	var payload models.BetPayload
	if err := decode(r, &payload); err != nil {
		return 0, nil, err
	}
	wager, err := s.wagers.PlaceBet(r.Context(), payload)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, wager, nil
}

func (s *Server) listBets(r *http.Request) (int, any, error) {
	offset, limit, err := pageParams(r)
	if err != nil {
		return 0, nil, err
	}
	page, err := s.wagers.ListBets(r.Context(), offset, limit)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, page, nil
}

func (s *Server) getBet(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	wager, err := s.wagers.GetBet(r.Context(), id)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, wager, nil
}

func (s *Server) updateBetStatus(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	var req statusRequest
	if err := decode(r, &req); err != nil {
		return 0, nil, err
	}
	wager, err := s.wagers.UpdateBetStatus(r.Context(), id, wagerStatus(req.Status))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, wager, nil
}

func (s *Server) deleteBet(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	wager, err := s.wagers.DeleteBet(r.Context(), id)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, wager, nil
}

// Users

func (s *Server) createAccount(r *http.Request) (int, any, error) {
	var payload models.AccountPayload
	if err := decode(r, &payload); err != nil {
		return 0, nil, err
	}
	account, err := s.accounts.CreateAccount(r.Context(), payload)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, account, nil
}

func (s *Server) listAccounts(r *http.Request) (int, any, error) {
	offset, limit, err := pageParams(r)
	if err != nil {
		return 0, nil, err
	}
	page, err := s.accounts.ListAccounts(r.Context(), offset, limit)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, page, nil
}

func (s *Server) getAccount(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	account, err := s.accounts.GetAccount(r.Context(), id)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, account, nil
}

func (s *Server) updateAccount(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	var payload models.AccountPayload
	if err := decode(r, &payload); err != nil {
		return 0, nil, err
	}
	account, err := s.accounts.UpdateAccount(r.Context(), id, payload)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, account, nil
}

func (s *Server) deleteAccount(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	account, err := s.accounts.DeleteAccount(r.Context(), id)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, account, nil
}

func (s *Server) deposit(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	var req amountRequest
	if err := decode(r, &req); err != nil {
		return 0, nil, err
	}
	account, err := s.accounts.Deposit(r.Context(), id, req.Amount)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, account, nil
}

func (s *Server) withdraw(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	var req amountRequest
	if err := decode(r, &req); err != nil {
		return 0, nil, err
	}
	account, err := s.accounts.Withdraw(r.Context(), id, req.Amount)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, account, nil
}

func (s *Server) userBets(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	wagers, err := s.wagers.ListUserBets(r.Context(), id)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, wagers, nil
}

// Events

func (s *Server) createEvent(r *http.Request) (int, any, error) {
	var payload models.EventPayload
	if err := decode(r, &payload); err != nil {
		return 0, nil, err
	}
	payload.Status = normalizeEventStatus(payload.Status)
	event, err := s.events.CreateEvent(r.Context(), payload)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, event, nil
}

func (s *Server) listEvents(r *http.Request) (int, any, error) {
	offset, limit, err := pageParams(r)
	if err != nil {
		return 0, nil, err
	}
	page, err := s.events.ListEvents(r.Context(), offset, limit)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, page, nil
}

func (s *Server) getEvent(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	event, err := s.events.GetEvent(r.Context(), id)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, event, nil
}

func (s *Server) updateEvent(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	var payload models.EventPayload
	if err := decode(r, &payload); err != nil {
		return 0, nil, err
	}
	payload.Status = normalizeEventStatus(payload.Status)
	event, err := s.events.UpdateEvent(r.Context(), id, payload)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, event, nil
}

func (s *Server) deleteEvent(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	event, err := s.events.DeleteEvent(r.Context(), id)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, event, nil
}

func (s *Server) updateEventStatus(r *http.Request) (int, any, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, nil, err
	}
	var req statusRequest
	if err := decode(r, &req); err != nil {
		return 0, nil, err
	}
	event, err := s.events.UpdateEventStatus(r.Context(), id, eventStatus(req.Status))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, event, nil
}

func normalizeEventStatus(status models.EventStatus) models.EventStatus {
	if status == "" {
		return status
	}
	return eventStatus(string(status))
}
