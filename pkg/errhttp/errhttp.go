// Package errhttp maps domain errors to HTTP responses.
// Add a case to classify for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/httpx"
	catalogdomain "github.com/ghuser/possystem/services/catalog/domain"
	identitydomain "github.com/ghuser/possystem/services/identity/domain"
	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	orderdomain "github.com/ghuser/possystem/services/order/domain"
)

// Error kinds carried in the "kind" field of every error body.
const (
	KindNotFound            = "not_found"
	KindConflict            = "conflict"
	KindInvalid             = "invalid"
	KindBadRequest          = "bad_request"
	KindUnauthorized        = "unauthorized"
	KindInsufficientStock   = "insufficient_stock"
	KindConcurrencyConflict = "concurrency_conflict"
	KindPersistenceFailure  = "persistence_failure"
	KindInternal            = "internal"
)

// StockDetails describes the material (or recipe-less product) that blocked an order.
type StockDetails struct {
	MaterialID *uuid.UUID      `json:"material_id,omitempty"`
	ProductID  *uuid.UUID      `json:"product_id,omitempty"`
	Name       string          `json:"name"`
	Required   decimal.Decimal `json:"required"`
	Available  decimal.Decimal `json:"available"`
}

// PersistenceDetails identifies a failed placement attempt.
type PersistenceDetails struct {
	AttemptID             uuid.UUID `json:"attempt_id"`
	ReconciliationPending bool      `json:"reconciliation_pending"`
}

type classified struct {
	status  int
	kind    string
	message string
	details any
}

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() and errors.As() so wrapped errors are matched correctly.
// Unrecognized errors become 500 with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	c := classify(err)
	httpx.JSONErrorKind(w, c.status, c.kind, c.message, c.details)
}

// BadRequest writes a 400 for malformed input the handler rejected itself.
func BadRequest(w http.ResponseWriter, message string) {
	httpx.JSONErrorKind(w, http.StatusBadRequest, KindBadRequest, message, nil)
}

// Status returns the status code WriteError would use for err.
func Status(err error) int { return classify(err).status }

func classify(err error) classified {
	msg := err.Error()

	var persist *orderdomain.PersistenceFailureError
	if errors.As(err, &persist) {
		return classified{
			status:  http.StatusInternalServerError,
			kind:    KindPersistenceFailure,
			message: "order could not be saved",
			details: PersistenceDetails{AttemptID: persist.AttemptID, ReconciliationPending: persist.CompensationErr != nil},
		}
	}

	var orderShort *orderdomain.InsufficientStockError
	if errors.As(err, &orderShort) {
		return classified{http.StatusConflict, KindInsufficientStock, msg,
			stockDetails(orderShort.MaterialID, orderShort.ProductID, orderShort.Name, orderShort.Required, orderShort.Available)}
	}
	var conflict *orderdomain.ConcurrencyConflictError
	if errors.As(err, &conflict) {
		return classified{http.StatusConflict, KindConcurrencyConflict, msg,
			stockDetails(conflict.MaterialID, uuid.Nil, conflict.Name, conflict.Required, conflict.Available)}
	}
	var invShort *invdomain.InsufficientStockError
	if errors.As(err, &invShort) {
		return classified{http.StatusConflict, KindInsufficientStock, msg,
			stockDetails(invShort.MaterialID, uuid.Nil, invShort.Name, invShort.Required, invShort.Available)}
	}
	var inUse *invdomain.MaterialInUseError
	if errors.As(err, &inUse) {
		return classified{http.StatusConflict, KindConflict, msg, map[string]any{"products": inUse.Products}}
	}
	var unknown *catalogdomain.UnknownMaterialsError
	if errors.As(err, &unknown) {
		return classified{http.StatusBadRequest, KindNotFound, msg, map[string]any{"material_ids": unknown.IDs}}
	}

	switch {
	case errors.Is(err, orderdomain.ErrConcurrencyConflict):
		return classified{http.StatusConflict, KindConcurrencyConflict, msg, nil}
	case errors.Is(err, orderdomain.ErrInsufficientStock), errors.Is(err, invdomain.ErrInsufficientStock):
		return classified{http.StatusConflict, KindInsufficientStock, msg, nil}
	case errors.Is(err, orderdomain.ErrProductNotFound), errors.Is(err, orderdomain.ErrMaterialNotFound),
		errors.Is(err, catalogdomain.ErrUnknownMaterial):
		return classified{http.StatusBadRequest, KindNotFound, msg, nil}
	case errors.Is(err, orderdomain.ErrInvalidOrder), errors.Is(err, orderdomain.ErrProductInactive):
		return classified{http.StatusUnprocessableEntity, KindInvalid, msg, nil}

	case errors.Is(err, identitydomain.ErrInvalidCredentials):
		return classified{http.StatusUnauthorized, KindUnauthorized, msg, nil}

	case errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, invdomain.ErrMaterialNotFound),
		errors.Is(err, invdomain.ErrReconciliationNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, catalogdomain.ErrCategoryNotFound),
		errors.Is(err, identitydomain.ErrUserNotFound):
		return classified{http.StatusNotFound, KindNotFound, msg, nil}

	case errors.Is(err, invdomain.ErrMaterialAlreadyExists),
		errors.Is(err, invdomain.ErrMaterialInUse),
		errors.Is(err, catalogdomain.ErrProductAlreadyExists),
		errors.Is(err, catalogdomain.ErrCategoryAlreadyExists),
		errors.Is(err, identitydomain.ErrUserAlreadyExists):
		return classified{http.StatusConflict, KindConflict, msg, nil}

	case errors.Is(err, invdomain.ErrInvalidMaterial),
		errors.Is(err, catalogdomain.ErrInvalidProduct),
		errors.Is(err, catalogdomain.ErrInvalidCategory),
		errors.Is(err, identitydomain.ErrInvalidUser):
		return classified{http.StatusUnprocessableEntity, KindInvalid, msg, nil}

	default:
		return classified{http.StatusInternalServerError, KindInternal, http.StatusText(http.StatusInternalServerError), nil}
	}
}

func stockDetails(materialID, productID uuid.UUID, name string, required, available decimal.Decimal) StockDetails {
	d := StockDetails{Name: name, Required: required, Available: available}
	if materialID != uuid.Nil {
		d.MaterialID = &materialID
	}
	if productID != uuid.Nil {
		d.ProductID = &productID
	}
	return d
}
