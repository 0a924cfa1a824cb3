package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mesafood/mesafood-backend/api/responses"
	"github.com/mesafood/mesafood-backend/pkg/config"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies lists the backing services the readiness probe verifies. Nil
// entries are skipped so partial wiring (tests, workers) stays checkable.
type Dependencies struct {
	DB    Pinger
	Redis Pinger
	Blobs Pinger
}

const readyProbeTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mesafood-Env", cfg.App.Env)
		responses.WriteSuccess(w, types.Envelope{"live": true})
	}
}

func HealthReady(cfg *config.Config, deps Dependencies) http.HandlerFunc {
	checks := []struct {
		name   string
		pinger Pinger
	}{
		{"db", deps.DB},
		{"redis", deps.Redis},
		{"blob_storage", deps.Blobs},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mesafood-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		status := map[string]string{}
		ready := true
		for _, check := range checks {
			if check.pinger == nil {
				status[check.name] = "skipped"
				continue
			}
			if err := check.pinger.Ping(ctx); err != nil {
				status[check.name] = "down"
				ready = false
				continue
			}
			status[check.name] = "up"
		}

		code := http.StatusOK
		word := types.StatusSuccess
		if !ready {
			code = http.StatusServiceUnavailable
			word = types.StatusError
		}
		responses.WriteSuccessStatus(w, code, types.Envelope{
			"status": word,
			"ready":  ready,
			"checks": status,
		})
	}
}
