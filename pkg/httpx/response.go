package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status. Encoding errors are dropped once the
// header is out.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the error envelope every endpoint uses. Kind is a stable
// machine-readable category; Details carries structured context such as
// the material that ran short.
type ErrorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSONErrorKind writes an ErrorBody.
func JSONErrorKind(w http.ResponseWriter, status int, kind, message string, details any) {
	JSON(w, status, ErrorBody{Error: message, Kind: kind, Details: details})
}
