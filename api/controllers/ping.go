package controllers

import (
	"net/http"

	"github.com/mesafood/mesafood-backend/api/middleware"
	"github.com/mesafood/mesafood-backend/api/responses"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, types.Envelope{"scope": "public", "ping": "pong"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := types.Envelope{"scope": "private", "ping": "pong"}
		if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
			payload["user_id"] = userID
		}
		responses.WriteSuccess(w, payload)
	}
}
