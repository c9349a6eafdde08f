package handler

import (
	"context"
	"log"
	"net/http"

	"leetboard/internal/common"
	"leetboard/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Aggregator is the part of service.StatsAggregator the handler needs.
type Aggregator interface {
	Aggregate(ctx context.Context) ([]model.ParticipantStats, error)
}

type ParticipantHandler struct {
	aggregator Aggregator
}

func NewParticipantHandler(a Aggregator) *ParticipantHandler {
	return &ParticipantHandler{aggregator: a}
}

func (h *ParticipantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listParticipants) // GET /api/participants
}

func (h *ParticipantHandler) listParticipants(w http.ResponseWriter, r *http.Request) {
	// Every request is a fresh aggregation pass.
	w.Header().Set("Cache-Control", "no-store")

	participants, err := h.aggregator.Aggregate(r.Context())
	if err != nil {
		log.Printf("ERROR: [%s] list participants: %v", middleware.GetReqID(r.Context()), err)
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Failed to aggregate participant stats")
		return
	}
	if participants == nil {
		participants = []model.ParticipantStats{}
	}
	common.RespondWithJSON(w, http.StatusOK, participants)
}
