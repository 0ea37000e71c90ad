package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"telegram-promo-gate/internal/domain"
	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/infra/metrics"
	"telegram-promo-gate/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

type broadcastRequest struct {
	Text   string `json:"text"`
	Silent bool   `json:"silent,omitempty"`
}

type broadcastResponse struct {
	OK     bool `json:"ok"`
	Sent   int  `json:"sent"`
	Failed int  `json:"failed"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// broadcastHandler runs a full synchronous fan-out pass and reports true
// per-recipient outcomes; partial success is never reported as full success.
func broadcastHandler(uc usecase.BroadcastUseCase, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req broadcastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text required"})
			return
		}

		res, err := uc.Broadcast(r.Context(), req.Text, adapter.SendOptions{Silent: req.Silent})
		if err != nil {
			if errors.Is(err, domain.ErrEmptyText) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text required"})
				return
			}
			log.Error().Err(err).Msg("admin broadcast failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "broadcast failed"})
			return
		}

		metrics.IncBroadcastRun("admin")
		writeJSON(w, http.StatusOK, broadcastResponse{OK: true, Sent: res.Sent, Failed: res.Failed})
	}
}
