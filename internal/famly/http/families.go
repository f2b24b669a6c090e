package http

import (
	"encoding/json"
	"net/http"

	"github.com/famlyapp/famly/internal/famly/domain"
	"github.com/famlyapp/famly/internal/famly/service"
	"github.com/famlyapp/famly/pkg/famsdk"
	"github.com/famlyapp/famly/pkg/httpx"
)

type CreateFamilyHandler struct {
	Membership *service.MembershipService
}

// ServeHTTP creates a family owned by the caller.
//
//	@Summary		Create a family
//	@Description	Generates a unique 8-character family code, creates the family and makes the caller its admin.
//	@Tags			Families
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		famsdk.CreateFamilyRequest	true	"Family details"
//	@Success		201		{object}	famsdk.Snapshot				"user, family"
//	@Failure		400		{object}	famsdk.ErrorResponse		"Validation failure"
//	@Failure		409		{object}	famsdk.ErrorResponse		"Caller already belongs to a family"
//	@Router			/api/families [post].
func (h *CreateFamilyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req famsdk.CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	// The service reads the snapshot inside the mutation's transaction, so
	// the body always matches what was committed.
	snap, err := h.Membership.CreateFamily(ctx, userID, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toSnapshot(snap))
}

type ValidateCodeHandler struct {
	Membership *service.MembershipService
}

// ServeHTTP previews the family behind a code without joining it.
//
//	@Summary		Validate a family code
//	@Description	Resolves a family code to the family's name and member list so the client can preview before joining.
//	@Tags			Families
//	@Security		BearerAuth
//	@Produce		json
//	@Param			code	path		string					true	"8-character family code"
//	@Success		200		{object}	famsdk.CodePreview		"id, name, memberCount, members, createdAt"
//	@Failure		404		{object}	famsdk.ErrorResponse	"No family matches the code"
//	@Router			/api/families/validate/{code} [get].
func (h *ValidateCodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.Membership.ValidateCode(ctx, r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, famsdk.CodePreview{
		ID:          view.ID,
		Name:        view.Name,
		MemberCount: view.MemberCount(),
		Members:     toMembers(view.Members),
		CreatedAt:   view.CreatedAt,
	})
}

type JoinFamilyHandler struct {
	Membership *service.MembershipService
}

// ServeHTTP joins the caller to the family matching the code.
//
//	@Summary		Join a family
//	@Description	Attaches the caller to the family matching the code (case-insensitive) as a member.
//	@Tags			Families
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		famsdk.JoinFamilyRequest	true	"Family code"
//	@Success		200		{object}	famsdk.Snapshot				"user, family"
//	@Failure		404		{object}	famsdk.ErrorResponse		"No family matches the code"
//	@Failure		409		{object}	famsdk.ErrorResponse		"Caller already belongs to a family"
//	@Router			/api/families/join [post].
func (h *JoinFamilyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req famsdk.JoinFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	snap, err := h.Membership.JoinFamily(ctx, userID, req.FamilyCode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSnapshot(snap))
}

type LeaveFamilyHandler struct {
	Membership *service.MembershipService
}

// ServeHTTP detaches the caller from their family. Unlike removal by an
// admin, self-leave is always permitted.
//
//	@Summary		Leave the family
//	@Description	Detaches the caller from their current family and resets their role to member.
//	@Tags			Families
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	famsdk.MessageResponse	"Confirmation"
//	@Failure		400	{object}	famsdk.ErrorResponse	"Caller belongs to no family"
//	@Router			/api/families/{familyId}/leave [post].
func (h *LeaveFamilyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	if err := h.Membership.Leave(ctx, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, famsdk.MessageResponse{
		Message: "Successfully left family",
	})
}

type FamilyMembersHandler struct {
	Membership *service.MembershipService
}

// ServeHTTP lists the members of the caller's family.
//
//	@Summary		List family members
//	@Description	Returns the family's member roster. The caller must belong to the family.
//	@Tags			Families
//	@Security		BearerAuth
//	@Produce		json
//	@Param			familyId	path		string					true	"Family ID"
//	@Success		200			{array}		famsdk.Member			"Members ordered by join date"
//	@Failure		403			{object}	famsdk.ErrorResponse	"Caller is not a member of this family"
//	@Router			/api/families/{familyId}/members [get].
func (h *FamilyMembersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	members, err := h.Membership.Members(ctx, userID, r.PathValue("familyId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMembers(members))
}

type ChangeRoleHandler struct {
	Membership *service.MembershipService
}

// ServeHTTP sets a member's role.
//
//	@Summary		Change a member's role
//	@Description	Promotes or demotes a member. Admin only; nothing stops a family losing its last admin.
//	@Tags			Families
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			familyId	path		string					true	"Family ID"
//	@Param			memberId	path		string					true	"Target member ID"
//	@Param			request		body		famsdk.ChangeRoleRequest	true	"New role"
//	@Success		200			{object}	famsdk.Member			"Updated member"
//	@Failure		403			{object}	famsdk.ErrorResponse	"Caller is not an admin of this family"
//	@Failure		404			{object}	famsdk.ErrorResponse	"Target is not in this family"
//	@Router			/api/families/{familyId}/members/{memberId}/role [patch].
func (h *ChangeRoleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req famsdk.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	member, err := h.Membership.ChangeRole(ctx,
		userID, r.PathValue("memberId"), r.PathValue("familyId"), domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMember(member))
}

type RemoveMemberHandler struct {
	Membership *service.MembershipService
}

// ServeHTTP removes a member from the family.
//
//	@Summary		Remove a member
//	@Description	Detaches another member from the family. Admin only; admins cannot remove themselves through this path and must leave instead.
//	@Tags			Families
//	@Security		BearerAuth
//	@Produce		json
//	@Param			familyId	path		string					true	"Family ID"
//	@Param			memberId	path		string					true	"Target member ID"
//	@Success		200			{object}	famsdk.MessageResponse	"Confirmation"
//	@Failure		400			{object}	famsdk.ErrorResponse	"Admin targeted themselves"
//	@Failure		403			{object}	famsdk.ErrorResponse	"Caller is not an admin of this family"
//	@Failure		404			{object}	famsdk.ErrorResponse	"Target is not in this family"
//	@Router			/api/families/{familyId}/members/{memberId} [delete].
func (h *RemoveMemberHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	err := h.Membership.RemoveMember(ctx, userID, r.PathValue("memberId"), r.PathValue("familyId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, famsdk.MessageResponse{
		Message: "Member removed from family successfully",
	})
}
