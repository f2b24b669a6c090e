package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/famlyapp/famly/internal/famly/domain"
	"github.com/famlyapp/famly/internal/famly/store"
	"github.com/famlyapp/famly/pkg/idx"
	"github.com/famlyapp/famly/pkg/slogx"
)

var (
	ErrFamilyNotFound   = errors.New("no family matches that code")
	ErrMemberNotFound   = errors.New("member not found in family")
	ErrNotInFamily      = errors.New("user does not belong to a family")
	ErrForbidden        = errors.New("admin rights required")
	ErrAdminSelfRemoval = errors.New("admins cannot remove themselves; leave the family instead")
	ErrInvalidRole      = errors.New("invalid role")
)

// AlreadyInFamilyError is returned when a create or join precondition finds
// the user already belongs to a family. It carries the current family so the
// client can resync instead of guessing.
type AlreadyInFamilyError struct {
	Family domain.FamilyView
}

func (e *AlreadyInFamilyError) Error() string {
	return "user already belongs to a family"
}

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MembershipService orchestrates family create/join/leave/role-change as
// atomic transitions. Every operation re-checks its preconditions inside the
// same transaction as the mutation so no interleaved operation can separate
// check from act.
type MembershipService struct {
	Store store.Store
	Codes *CodeGenerator
}

// CreateFamily generates a unique code, inserts the family and makes the
// creating user its admin, all in one transaction. The returned snapshot is
// read inside that same transaction, so it cannot disagree with the state the
// operation just committed.
func (s *MembershipService) CreateFamily(
	ctx context.Context,
	userID string,
	name string,
	description *string,
) (domain.Snapshot, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the display name.
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 50 {
		return domain.Snapshot{}, &ValidationError{
			Field:  "name",
			Reason: "must be between 2 and 50 characters",
		}
	}

	var snap domain.Snapshot
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Re-check the membership precondition in-tx. Two concurrent
		// creates from the same user must result in exactly one success.
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.InFamily() {
			return s.alreadyInFamily(ctx, tx, *user.FamilyID)
		}

		// 3. Draw a unique code against the same transaction.
		code, err := s.Codes.Generate(ctx, tx.Families())
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		family := domain.Family{
			ID:          idx.New().String(),
			Name:        name,
			Description: description,
			FamilyCode:  code,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		// 4. Persist family and membership together.
		if err := tx.Families().CreateFamily(ctx, family); err != nil {
			return err
		}
		if err := tx.Users().SetMembership(ctx, userID, &family.ID, domain.RoleAdmin); err != nil {
			return err
		}

		snap, err = s.snapshotIn(ctx, tx, userID)
		return err
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	log.Info("family created",
		slog.String("family_id", snap.Family.ID),
		slog.String("created_by", userID),
	)
	return snap, nil
}

// JoinFamily attaches the user to the family matching code. Codes are matched
// case-insensitively. Like CreateFamily, the returned snapshot is read inside
// the mutation's transaction.
func (s *MembershipService) JoinFamily(
	ctx context.Context,
	userID string,
	code string,
) (domain.Snapshot, error) {
	log := slogx.FromContext(ctx)

	code = strings.TrimSpace(code)
	if len(code) != domain.CodeLength {
		return domain.Snapshot{}, ErrFamilyNotFound
	}

	var snap domain.Snapshot
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		family, err := tx.Families().GetFamilyByCode(ctx, code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrFamilyNotFound
			}
			return err
		}

		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.InFamily() {
			return s.alreadyInFamily(ctx, tx, *user.FamilyID)
		}

		if err := tx.Users().SetMembership(ctx, userID, &family.ID, domain.RoleMember); err != nil {
			return err
		}

		snap, err = s.snapshotIn(ctx, tx, userID)
		return err
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	log.Info("user joined family",
		slog.String("family_id", snap.Family.ID),
		slog.String("user_id", userID),
	)
	return snap, nil
}

// ValidateCode resolves a family code without joining, so clients can preview
// the family before committing.
func (s *MembershipService) ValidateCode(ctx context.Context, code string) (domain.FamilyView, error) {
	code = strings.TrimSpace(code)
	if len(code) != domain.CodeLength {
		return domain.FamilyView{}, ErrFamilyNotFound
	}

	var view domain.FamilyView
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		family, err := tx.Families().GetFamilyByCode(ctx, code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrFamilyNotFound
			}
			return err
		}
		view, err = s.familyView(ctx, tx, family.ID)
		return err
	})
	if err != nil {
		return domain.FamilyView{}, err
	}
	return view, nil
}

// Leave detaches the user from their current family. Always permitted,
// including for admins; nothing prevents a family from losing its last admin.
func (s *MembershipService) Leave(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if !user.InFamily() {
			return ErrNotInFamily
		}
		return tx.Users().SetMembership(ctx, userID, nil, domain.RoleMember)
	})
	if err != nil {
		return err
	}

	log.Info("user left family", slog.String("user_id", userID))
	return nil
}

// RemoveMember detaches another member from the family. Requires the actor to
// be an admin of that family; admins may not target themselves through this
// path and must use Leave instead.
func (s *MembershipService) RemoveMember(
	ctx context.Context,
	actorID string,
	targetID string,
	familyID string,
) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		actor, err := tx.Users().GetUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		if actor.FamilyID == nil || *actor.FamilyID != familyID || actor.Role != domain.RoleAdmin {
			return ErrForbidden
		}
		if actorID == targetID {
			return ErrAdminSelfRemoval
		}

		target, err := tx.Users().GetUserByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if target.FamilyID == nil || *target.FamilyID != familyID {
			return ErrMemberNotFound
		}

		return tx.Users().SetMembership(ctx, targetID, nil, domain.RoleMember)
	})
	if err != nil {
		return err
	}

	log.Info("member removed",
		slog.String("family_id", familyID),
		slog.String("removed_user_id", targetID),
		slog.String("removed_by", actorID),
	)
	return nil
}

// ChangeRole sets a member's role. Admin-only. The store model does not force
// a family to keep at least one admin, so demoting the last admin succeeds.
func (s *MembershipService) ChangeRole(
	ctx context.Context,
	actorID string,
	targetID string,
	familyID string,
	newRole domain.Role,
) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	if !newRole.Valid() {
		return domain.Member{}, ErrInvalidRole
	}

	var member domain.Member
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		actor, err := tx.Users().GetUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		if actor.FamilyID == nil || *actor.FamilyID != familyID || actor.Role != domain.RoleAdmin {
			return ErrForbidden
		}

		target, err := tx.Users().GetUserByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if target.FamilyID == nil || *target.FamilyID != familyID {
			return ErrMemberNotFound
		}

		if err := tx.Users().SetMembership(ctx, targetID, &familyID, newRole); err != nil {
			return err
		}

		target.Role = newRole
		member = domain.MemberOf(target)
		return nil
	})
	if err != nil {
		return domain.Member{}, err
	}

	log.Info("member role changed",
		slog.String("family_id", familyID),
		slog.String("user_id", targetID),
		slog.String("new_role", string(newRole)),
		slog.String("changed_by", actorID),
	)
	return member, nil
}

// Members lists the family's member roster. The actor must belong to the
// family they are asking about.
func (s *MembershipService) Members(
	ctx context.Context,
	actorID string,
	familyID string,
) ([]domain.Member, error) {
	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.FamilyID == nil || *actor.FamilyID != familyID {
		return nil, ErrForbidden
	}

	users, err := s.Store.Users().ListFamilyMembers(ctx, familyID)
	if err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(users))
	for _, u := range users {
		members = append(members, domain.MemberOf(u))
	}
	return members, nil
}

// Snapshot returns the canonical {user, family} pair used by clients to
// reconcile their cache. Family is nil when the user belongs to no family.
func (s *MembershipService) Snapshot(ctx context.Context, userID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		snap, err = s.snapshotIn(ctx, tx, userID)
		return err
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// snapshotIn reads the {user, family} pair inside tx. Mutations call it from
// their own transaction so their response reflects exactly what they
// committed.
func (s *MembershipService) snapshotIn(
	ctx context.Context,
	tx store.Tx,
	userID string,
) (domain.Snapshot, error) {
	user, err := tx.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap := domain.Snapshot{User: user}

	if !user.InFamily() {
		return snap, nil
	}

	view, err := s.familyView(ctx, tx, *user.FamilyID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.Family = &view
	return snap, nil
}

// familyView loads a family with its resolved member list inside tx.
func (s *MembershipService) familyView(
	ctx context.Context,
	tx store.Tx,
	familyID string,
) (domain.FamilyView, error) {
	family, err := tx.Families().GetFamilyByID(ctx, familyID)
	if err != nil {
		return domain.FamilyView{}, err
	}

	users, err := tx.Users().ListFamilyMembers(ctx, familyID)
	if err != nil {
		return domain.FamilyView{}, err
	}

	members := make([]domain.Member, 0, len(users))
	for _, u := range users {
		members = append(members, domain.MemberOf(u))
	}
	return domain.FamilyView{Family: family, Members: members}, nil
}

// alreadyInFamily builds the AlreadyInFamilyError carrying the user's current
// family so the client can resync instead of guessing.
func (s *MembershipService) alreadyInFamily(
	ctx context.Context,
	tx store.Tx,
	familyID string,
) error {
	view, err := s.familyView(ctx, tx, familyID)
	if err != nil {
		return err
	}
	return &AlreadyInFamilyError{Family: view}
}
