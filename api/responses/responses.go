package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/logger"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

// WriteSuccess writes the success envelope with HTTP 200.
func WriteSuccess(w http.ResponseWriter, payload types.Envelope) {
	WriteSuccessStatus(w, http.StatusOK, payload)
}

// WriteSuccessStatus writes the success envelope with an explicit status code.
// Payload keys are merged next to the "status" key.
func WriteSuccessStatus(w http.ResponseWriter, status int, payload types.Envelope) {
	body := types.Envelope{"status": types.StatusSuccess}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// WriteError translates any error into the envelope. Coded errors use their
// HTTP metadata; everything else is treated as internal. Client errors render
// status "fail", server errors render status "error".
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() != pkgerrors.CodeInternal && typed.Message() != "" {
		msg = typed.Message()
	}

	statusWord := types.StatusFail
	if meta.HTTPStatus >= http.StatusInternalServerError {
		statusWord = types.StatusError
	}

	body := types.Envelope{
		"status":  statusWord,
		"message": msg,
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			body["details"] = details
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"error_code":  string(typed.Code()),
			"http_status": meta.HTTPStatus,
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
