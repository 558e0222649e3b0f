package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/crease/internal/apperr"
)

type errorBody struct {
	Error string `json:"error"`
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	JSON(w, http.StatusInternalServerError, errorBody{Error: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	JSON(w, http.StatusNotFound, errorBody{Error: msg})
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("conflict", "message", msg, "error", err)
	} else {
		slog.Warn("conflict", "message", msg)
	}
	JSON(w, http.StatusConflict, errorBody{Error: msg})
}

// Error writes err with the status code that matches its kind. msg is only
// logged for internal failures, whose details are not sent to the client.
func Error(w http.ResponseWriter, msg string, err error) {
	message := err.Error()
	var e *apperr.Error
	if errors.As(err, &e) {
		message = e.Message
	}

	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		BadRequest(w, message, nil)
	case apperr.KindNotFound:
		NotFound(w, message, nil)
	case apperr.KindConflict:
		Conflict(w, message, nil)
	default:
		InternalServerError(w, msg, err)
	}
}
