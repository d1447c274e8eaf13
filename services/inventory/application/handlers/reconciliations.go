package handlers

import (
	"net/http"

	"github.com/ghuser/possystem/pkg/errhttp"
	"github.com/ghuser/possystem/pkg/httpx"
	appsvcs "github.com/ghuser/possystem/services/inventory/application/services"
)

// ReconciliationHandler exposes the journal of stock restores that could not
// be applied when an order failed.
type ReconciliationHandler struct {
	svc *appsvcs.Services
}

func NewReconciliationHandler(svc *appsvcs.Services) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc}
}

// ListOpen returns unresolved entries.
//
//	@Summary	List open reconciliations
//	@Tags		reconciliations
//	@Produce	json
//	@Success	200	{array}	ReconciliationResponse
//	@Router		/reconciliations [get]
func (h *ReconciliationHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Reconciliation.ListOpen(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]ReconciliationResponse, len(entries))
	for i, e := range entries {
		out[i] = toReconciliation(e)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Apply restores the stock of one entry. Applying twice is a no-op.
//
//	@Summary	Apply reconciliation
//	@Tags		reconciliations
//	@Produce	json
//	@Param		id	path		string	true	"Reconciliation id"
//	@Success	200	{object}	ReconciliationResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/reconciliations/{id}/apply [post]
func (h *ReconciliationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	e, err := h.svc.Reconciliation.Apply(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReconciliation(e))
}
