package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-sod/rango/internal/logging"
)

func DecodeErr(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		syntaxErr      *json.SyntaxError
		unmarshalError *json.UnmarshalTypeError
		maxBytesErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &syntaxErr):
		RespBadRequest(ctx, w, "malformed json at position %v", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		RespBadRequest(ctx, w, "malformed json")
	case errors.As(err, &unmarshalError):
		RespBadRequest(ctx, w, "invalid value %v at position %v", unmarshalError.Field, unmarshalError.Offset)
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		RespBadRequest(ctx, w, "unknown field %s", fieldName)
	case errors.Is(err, io.EOF):
		RespBadRequest(ctx, w, "body must not be empty")
	case errors.As(err, &maxBytesErr):
		RespError(ctx, w, http.StatusRequestEntityTooLarge, "body must not be larger than %d bytes", maxBytesErr.Limit)
	default:
		RespInternalError(ctx, w, "failed to decode json %v", err)
	}
}

// RequireJSON reports whether r carries a JSON body and answers 415 if not.
func RequireJSON(ctx context.Context, w http.ResponseWriter, r *http.Request) bool {
	if t := r.Header.Get("content-type"); !strings.HasPrefix(t, "application/json") {
		RespError(ctx, w, http.StatusUnsupportedMediaType, "content-type is not application/json")
		return false
	}
	return true
}

func RespJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		RespInternalError(ctx, w, "failed to encode output json %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bytes)
}

func RespError(ctx context.Context, w http.ResponseWriter, status int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.FromContext(ctx).Debugf("responding %d: %s", status, msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	bytes, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	_, _ = w.Write(bytes)
}

func RespBadRequest(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	RespError(ctx, w, http.StatusBadRequest, format, args...)
}

func RespNotFound(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	RespError(ctx, w, http.StatusNotFound, format, args...)
}

func RespMethodNotAllowed(ctx context.Context, w http.ResponseWriter, method string) {
	RespError(ctx, w, http.StatusMethodNotAllowed, "method %v is not allowed", method)
}

func RespInternalError(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	logging.FromContext(ctx).Errorf(format, args...)
	RespError(ctx, w, http.StatusInternalServerError, "internal error")
}
