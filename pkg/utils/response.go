package utils

import (
	"net/http"

	"github.com/goccy/go-json"

	"lushlocks-backend/internal/domain"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteSuccess wraps data in the standard success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, domain.Response{Success: true, Data: data})
}

// WriteSuccessMeta wraps data plus pagination/meta in the success envelope.
func WriteSuccessMeta(w http.ResponseWriter, status int, data, meta interface{}) {
	WriteJSON(w, status, domain.Response{Success: true, Data: data, Meta: meta})
}

// WriteError translates any error into the uniform failure envelope, mapping
// the taxonomy kind to a status code and hiding internal detail on 500s.
func WriteError(w http.ResponseWriter, err error) {
	ae := domain.AsAppError(err)
	WriteJSON(w, ae.HTTPStatus(), domain.Response{Success: false, Message: ae.PublicMessage()})
}

// WriteErrorMsg is for handler-level validation where no AppError exists yet.
func WriteErrorMsg(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, domain.Response{Success: false, Message: message})
}
