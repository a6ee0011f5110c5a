// Package shared holds the response helpers every HTTP handler uses, so
// status mapping and the error envelope stay uniform across features.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "legado/pkg/domain-errors"
)

// errorResponse is the uniform error envelope: {"error": "message"}.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the uniform success envelope for operations that
// return no resource body: {"message": "..."}.
type messageResponse struct {
	Message string `json:"message"`
}

// WriteJSON serializes v with the given status. Encoding failures after the
// header is written can only be logged upstream; the status is already on
// the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a {"message": ...} envelope with the given status.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, messageResponse{Message: message})
}

// WriteError maps a domain error to its HTTP status and writes the error
// envelope. Unknown errors become 500 without leaking their message.
func WriteError(w http.ResponseWriter, err error) {
	status := dErrors.ToHTTPStatus(dErrors.CodeOf(err))
	WriteJSON(w, status, errorResponse{Error: dErrors.MessageOf(err)})
}
