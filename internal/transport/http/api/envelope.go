// Package api holds the response contract shared by every HTTP handler: the
// success envelope, the error envelope, the translator that maps any error onto
// a status code, and the wrapper that funnels handler failures into it.
package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
)

// ErrResponseWritten is returned by Respond when the handler already wrote a response.
var ErrResponseWritten = errors.New("response already written")

// Envelope wraps every successful response body.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// New builds an envelope. Success is derived from the status code.
func New[T any](status int, data T, message string) Envelope[T] {
	return Envelope[T]{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	}
}

func OK[T any](data T, message string) Envelope[T] {
	return New(http.StatusOK, data, message)
}

func Created[T any](data T, message string) Envelope[T] {
	return New(http.StatusCreated, data, message)
}

// Respond writes env as the response body with env.StatusCode as the status.
func Respond[T any](w http.ResponseWriter, env Envelope[T]) error {
	if written(w) {
		return ErrResponseWritten
	}
	return writeJSON(w, env.StatusCode, env)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
