package handler

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Detail  string `json:"detail,omitempty"`
}

// emptyData renders as {} so clients can rely on data being an object.
var emptyData = struct{}{}

type jsonResponse struct {
	status int
	body   Envelope
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	return WriteJSON(w, j.status, j.body)
}

type JSONOption func(*jsonResponse)

// WithStatus overrides the 200 default.
func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

// JSON renders a success envelope. A nil data renders as {}.
func JSON(message string, data any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
		body:   Envelope{Success: true, Message: message, Data: data},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Created renders a 201 success envelope.
func Created(message string, data any) Response {
	return JSON(message, data, WithStatus(http.StatusCreated))
}

// WriteJSON encodes body with status. Used directly by middleware that has
// no handler.Context.
func WriteJSON(w http.ResponseWriter, status int, body Envelope) error {
	if body.Data == nil {
		body.Data = emptyData
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// WriteError renders a failure envelope for err. HTTPError values keep
// their code and message; anything else becomes a generic 500.
func WriteError(w http.ResponseWriter, err error) error {
	info := classifyError(err)
	return WriteJSON(w, info.StatusCode, Envelope{Message: info.Message, Data: info.Data})
}
