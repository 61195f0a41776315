package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sportsbook/models"

	log "github.com/sirupsen/logrus"
)

type errorBody struct {
	Error *models.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// statusFor maps a domain error kind to an HTTP status
func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.ErrorKindNotFound:
		return http.StatusNotFound
	case models.ErrorKindInvalidInput:
		return http.StatusBadRequest
	case models.ErrorKindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *models.Error
	if errors.As(err, &domainErr) {
		writeJSON(w, statusFor(domainErr.Kind), errorBody{Error: domainErr})
		return
	}

	log.WithFields(log.Fields{
		"requestID": RequestIDFrom(r.Context()),
		"path":      r.URL.Path,
		"error":     err,
	}).Error("Request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: &models.Error{Kind: "Internal", Msg: "internal error"}})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.InvalidInput("request body exceeds %d bytes", tooLarge.Limit)
		}
		return models.InvalidInput("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request) (uint64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, models.InvalidInput("invalid id %q", raw)
	}
	return id, nil
}

// pageParams reads offset and limit from the query string; absent values are zero
func pageParams(r *http.Request) (int, int, error) {
	query := r.URL.Query()
	var bounds [2]int
	for i, name := range []string{"offset", "limit"} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, models.InvalidInput("invalid %s %q", name, raw)
		}
		bounds[i] = n
	}
	return bounds[0], bounds[1], nil
}
