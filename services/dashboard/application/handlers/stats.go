package handlers

import (
	"net/http"

	"github.com/ghuser/possystem/pkg/errhttp"
	"github.com/ghuser/possystem/pkg/httpx"
	appsvcs "github.com/ghuser/possystem/services/dashboard/application/services"
	"github.com/ghuser/possystem/services/dashboard/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"Internal Server Error"`
	Kind  string `json:"kind"  example:"internal"`
} // @name ErrorResponse

// StatsResponse is the dashboard payload.
type StatsResponse = models.Stats

type StatsHandler struct {
	svc *appsvcs.Services
}

func NewStatsHandler(svc *appsvcs.Services) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Execute returns the dashboard aggregates.
//
//	@Summary	Dashboard stats
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	StatsResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/dashboard/stats [get]
func (h *StatsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats.Stats(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
