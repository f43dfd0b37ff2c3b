package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/validate"
	"mcommerce/internal/requestctx"
)

const maxBodyBytes = 1 << 20

// envelope is the response shape of every API call.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Kind    domain.Kind         `json:"kind"`
	Code    domain.Code         `json:"code,omitempty"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindState:
		return http.StatusConflict
	case domain.KindPermission:
		if domain.CodeOf(err) == domain.CodeUnauthenticated {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newErrorBody(err error) *errorBody {
	var de *domain.Error
	if errors.As(err, &de) {
		return &errorBody{Kind: de.Kind, Code: de.Code, Message: de.Message, Fields: de.Fields}
	}
	return &errorBody{Kind: domain.KindStore, Code: domain.CodeStoreFailure, Message: "internal error"}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

func (h *Handler) ok(w http.ResponseWriter, status int, data any) {
	h.writeJSON(w, status, envelope{Success: true, Data: data})
}

// fail renders err. Store failures are logged with the request id; their
// cause never reaches the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request error",
			slog.String("path", r.URL.Path),
			slog.String("request_id", requestctx.RequestID(r.Context())),
			slog.Any("error", err))
	}
	h.writeJSON(w, status, envelope{Error: newErrorBody(err)})
}

// decode reads a JSON body into T, rejecting unknown fields.
func decode[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var zero T
		return zero, domain.ValidationFailed("malformed JSON",
			domain.FieldError{Field: "body", Message: err.Error()})
	}
	return validate.Decode[T](raw)
}
