package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"devotional/internal/errs"
)

// Response is the envelope of every API reply
type Response struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// JSON writes resp with the given status code
func JSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// Success writes a 200 reply carrying data
func Success(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusOK, Response{
		Status:  http.StatusOK,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created writes a 201 reply carrying data
func Created(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusCreated, Response{
		Status:  http.StatusCreated,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes a failed reply
func Error(w http.ResponseWriter, statusCode int, message string, details any) {
	JSON(w, statusCode, Response{
		Status:  statusCode,
		Success: false,
		Message: message,
		Errors:  details,
	})
}

// permissionWarning is the message of replies whose change was saved but
// whose notification could not be registered
const permissionWarning = "Saved, but notifications are not allowed; the reminder will fire once permission is granted"

// fail maps a component error to a reply. Validation errors are 400, missing
// entities 404 and everything else 500.
func (s *Server) fail(w http.ResponseWriter, err error, message string) {
	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		Error(w, http.StatusBadRequest, message, map[string]string{verr.Field: verr.Reason})
	case errors.Is(err, errs.ErrNotFound):
		Error(w, http.StatusNotFound, message, err.Error())
	default:
		s.logger.Error(message, zap.Error(err))
		Error(w, http.StatusInternalServerError, message, err.Error())
	}
}

// reply writes data after a mutation that may have been saved without its
// notification. A denied permission becomes a successful reply with a
// warning; any other error is passed to fail.
func (s *Server) reply(w http.ResponseWriter, statusCode int, data any, err error, message, failure string) {
	if err != nil && !errors.Is(err, errs.ErrPermissionDenied) {
		s.fail(w, err, failure)
		return
	}
	if err != nil {
		message = permissionWarning
	}
	JSON(w, statusCode, Response{
		Status:  statusCode,
		Success: true,
		Message: message,
		Data:    data,
	})
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Invalid("body", "invalid JSON: "+err.Error())
	}
	return nil
}
