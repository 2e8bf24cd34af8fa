package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"catalogo-millex/service"
)

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("❌ failed to encode response", zap.Error(err))
	}
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	var fetchErr *service.FetchError
	var parseErr *service.ParseError
	switch {
	case errors.Is(err, service.ErrUnknownLine), errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
