package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/famlyapp/famly/internal/famly/domain"
	"github.com/famlyapp/famly/internal/famly/service"
	"github.com/famlyapp/famly/internal/famly/store"
	"github.com/famlyapp/famly/pkg/famsdk"
	"github.com/famlyapp/famly/pkg/httpx"
	"github.com/famlyapp/famly/pkg/slogx"
)

// ============================================================================
// Domain -> wire mapping
// ============================================================================

func toUser(u domain.User) famsdk.User {
	return famsdk.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		FamilyID:  u.FamilyID,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toMember(m domain.Member) famsdk.Member {
	return famsdk.Member{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

func toMembers(members []domain.Member) []famsdk.Member {
	out := make([]famsdk.Member, 0, len(members))
	for _, m := range members {
		out = append(out, toMember(m))
	}
	return out
}

func toFamily(v domain.FamilyView) famsdk.Family {
	return famsdk.Family{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		FamilyCode:  v.FamilyCode,
		MemberCount: v.MemberCount(),
		Members:     toMembers(v.Members),
		CreatedAt:   v.CreatedAt,
	}
}

func toSnapshot(s domain.Snapshot) famsdk.Snapshot {
	snap := famsdk.Snapshot{User: toUser(s.User)}
	if s.Family != nil {
		family := toFamily(*s.Family)
		snap.Family = &family
	}
	return snap
}

// ============================================================================
// Service error -> HTTP mapping
// ============================================================================

// writeServiceError translates service errors into wire errors. Anything
// unrecognized is logged and reported as a 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var already *service.AlreadyInFamilyError
	if errors.As(err, &already) {
		family := toFamily(already.Family)
		httpx.WriteJSON(w, http.StatusConflict, famsdk.ErrorResponse{
			Error:   famsdk.ErrorCodeAlreadyInFamily,
			Message: "You are already part of a family",
			Family:  &family,
		})
		return
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteError(w, http.StatusBadRequest, famsdk.ErrorCodeInvalidRequest, verr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, famsdk.ErrorCodeInvalidLogin, "Invalid email or password")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, famsdk.ErrorCodeEmailTaken, "An account with that email already exists")
	case errors.Is(err, service.ErrFamilyNotFound):
		httpx.WriteError(w, http.StatusNotFound, famsdk.ErrorCodeFamilyNotFound, "Family not found")
	case errors.Is(err, service.ErrMemberNotFound):
		httpx.WriteError(w, http.StatusNotFound, famsdk.ErrorCodeMemberNotFound, "Member not found in this family")
	case errors.Is(err, service.ErrNotInFamily):
		httpx.WriteError(w, http.StatusBadRequest, famsdk.ErrorCodeNotInFamily, "You do not belong to a family")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, famsdk.ErrorCodeForbidden, "Only family admins can do that")
	case errors.Is(err, service.ErrAdminSelfRemoval):
		httpx.WriteError(w, http.StatusBadRequest, famsdk.ErrorCodeSelfRemoval, "Cannot remove yourself from the family")
	case errors.Is(err, service.ErrInvalidRole):
		httpx.WriteError(w, http.StatusBadRequest, famsdk.ErrorCodeInvalidRequest, "Role must be admin or member")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, famsdk.ErrorCodeMemberNotFound, "Not found")
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, famsdk.ErrorCodeServerError, "Something went wrong")
	}
}

// writeBadJSON reports an undecodable request body.
func writeBadJSON(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, famsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
}
