package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/possystem/pkg/auth"
	"github.com/ghuser/possystem/pkg/errhttp"
	"github.com/ghuser/possystem/pkg/httpx"
	"github.com/ghuser/possystem/pkg/logger"
	pkgvalidator "github.com/ghuser/possystem/pkg/validator"
	appsvcs "github.com/ghuser/possystem/services/identity/application/services"
	"github.com/ghuser/possystem/services/identity/domain/models"
)

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email" example:"cashier@pos.local"`
	Password string `json:"password" validate:"required"       example:"changeme123"`
} // @name LoginRequest

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"    example:"cashier@pos.local"`
	Name      string    `json:"name"     example:"Jane"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
} // @name UserResponse

// LoginResponse carries the user and a bearer token. A session cookie is
// set as well.
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
} // @name LoginResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid email or password"`
	Kind  string `json:"kind"  example:"unauthorized"`
} // @name ErrorResponse

// AuthHandler serves /auth.
type AuthHandler struct {
	svc      *appsvcs.Services
	sessions sessions.Store
	log      logger.Logger
}

func NewAuthHandler(svc *appsvcs.Services, store sessions.Store, log logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: store, log: log}
}

// Login authenticates an operator.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	LoginResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[LoginRequest](w, r)
	if !ok {
		return
	}
	res, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if h.sessions != nil {
		if err := auth.StartSession(h.sessions, w, r, res.User.ID); err != nil {
			// The bearer token still works without the cookie.
			h.log.WarnContext(r.Context(), "start session failed", "user_id", res.User.ID, "error", err)
		}
	}
	httpx.JSON(w, http.StatusOK, LoginResponse{User: toUser(res.User), AccessToken: res.AccessToken})
}

// Logout clears the session cookie.
//
//	@Summary	Log out
//	@Tags		auth
//	@Success	204
//	@Router		/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if err := auth.EndSession(h.sessions, w, r); err != nil {
			h.log.WarnContext(r.Context(), "end session failed", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated operator.
//
//	@Summary	Current user
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	UserResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONErrorKind(w, http.StatusUnauthorized, errhttp.KindUnauthorized, "authentication required", nil)
		return
	}
	u, err := h.svc.Auth.Me(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUser(u))
}

func toUser(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, IsActive: u.IsActive, CreatedAt: u.CreatedAt}
}
