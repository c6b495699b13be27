package response

import (
	"encoding/json"
	"net/http"
)

// Envelope wraps every successful payload under a "data" key.
type Envelope struct {
	Data any `json:"data"`
}

// WriteJSON writes v as JSON with the given status code, setting the
// Content-Type header if the handler has not already done so.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 response with the payload under "data".
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data})
}

// Created writes a 201 response with the payload under "data".
func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Data: data})
}
