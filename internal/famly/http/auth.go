package http

import (
	"encoding/json"
	"net/http"

	"github.com/famlyapp/famly/internal/famly/service"
	"github.com/famlyapp/famly/pkg/famsdk"
	"github.com/famlyapp/famly/pkg/httpx"
)

type RegisterHandler struct {
	Accounts *service.AccountService
}

// ServeHTTP handles account registration.
//
//	@Summary		Register a new account
//	@Description	Creates an account and returns a session token plus the membership snapshot.
//	@Description	When familyCode is provided the account joins that family atomically with its creation.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		famsdk.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	famsdk.AuthResponse		"token, user, family"
//	@Failure		400		{object}	famsdk.ErrorResponse	"Validation failure"
//	@Failure		404		{object}	famsdk.ErrorResponse	"Unknown family code"
//	@Failure		409		{object}	famsdk.ErrorResponse	"Email already registered"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req famsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	snap, token, err := h.Accounts.Register(ctx, service.RegisterParams{
		Email:      req.Email,
		Name:       req.Name,
		Phone:      req.Phone,
		Password:   req.Password,
		FamilyCode: req.FamilyCode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	wire := toSnapshot(snap)
	httpx.WriteJSON(w, http.StatusCreated, famsdk.AuthResponse{
		Token:  token,
		User:   wire.User,
		Family: wire.Family,
	})
}

type LoginHandler struct {
	Accounts *service.AccountService
}

// ServeHTTP handles credential login.
//
//	@Summary		Log in
//	@Description	Verifies email and password and returns a session token plus the membership snapshot.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		famsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	famsdk.AuthResponse		"token, user, family"
//	@Failure		401		{object}	famsdk.ErrorResponse	"Invalid credentials"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req famsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	snap, token, err := h.Accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	wire := toSnapshot(snap)
	httpx.WriteJSON(w, http.StatusOK, famsdk.AuthResponse{
		Token:  token,
		User:   wire.User,
		Family: wire.Family,
	})
}

type MeHandler struct {
	Membership *service.MembershipService
}

// ServeHTTP returns the canonical {user, family} snapshot. This is the
// reconciliation fetch the mobile client polls.
//
//	@Summary		Current user and family
//	@Description	Returns the authenticated user together with their family and its member list.
//	@Description	Family is null while the user belongs to no family.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	famsdk.Snapshot			"user, family"
//	@Failure		401	{object}	famsdk.ErrorResponse	"Invalid or expired token"
//	@Router			/api/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	snap, err := h.Membership.Snapshot(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSnapshot(snap))
}
