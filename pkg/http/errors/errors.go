package errors

import (
	"encoding/json"
	"net/http"
)

// Response is the fixed error envelope every failing endpoint returns. The
// numeric Error field mirrors the HTTP status code.
type Response struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// Fixed messages per status code; clients match on these strings.
const (
	MessageBadRequest    = "bad request"
	MessageNotFound      = "Not Found"
	MessageUnprocessable = "Unprocessable Error"
)

// Respond writes the error envelope with the given status code and message.
func Respond(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Success: false,
		Error:   status,
		Message: message,
	})
}

// RespondBadRequest writes the fixed 400 envelope.
func RespondBadRequest(w http.ResponseWriter) {
	Respond(w, http.StatusBadRequest, MessageBadRequest)
}

// RespondNotFound writes the fixed 404 envelope.
func RespondNotFound(w http.ResponseWriter) {
	Respond(w, http.StatusNotFound, MessageNotFound)
}

// RespondUnprocessable writes the fixed 422 envelope.
func RespondUnprocessable(w http.ResponseWriter) {
	Respond(w, http.StatusUnprocessableEntity, MessageUnprocessable)
}
