package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"remixlab-backend-go/internal/services"
)

// mapServiceError answers with the taxonomy status when err carries one.
// Anything else is reported generically so internals never leak.
func mapServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	var serr services.ServiceError
	if errors.As(err, &serr) {
		WriteError(w, serr.Status, serr.Message)
		return true
	}
	return false
}

func writeServiceError(w http.ResponseWriter, err error) {
	if mapServiceError(w, err) {
		return
	}
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value < 0 {
		return fallback
	}
	return value
}

func parseID(raw string) (int64, error) {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return 0, services.ErrBadRequest("Invalid id")
	}
	return value, nil
}

func orUnknown(value *string) string {
	if value == nil || *value == "" {
		return "Unknown"
	}
	return *value
}
