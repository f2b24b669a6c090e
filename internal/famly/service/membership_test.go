package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/famlyapp/famly/internal/famly/domain"
	"github.com/famlyapp/famly/internal/famly/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFamily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "creator@example.com")

	snap, err := f.membership.CreateFamily(ctx, user.ID, "  The Smiths  ", nil)
	require.NoError(t, err)

	require.NotNil(t, snap.Family)
	assert.Equal(t, "The Smiths", snap.Family.Name)
	assert.Len(t, snap.Family.FamilyCode, domain.CodeLength)
	assert.Equal(t, strings.ToUpper(snap.Family.FamilyCode), snap.Family.FamilyCode)
	require.Len(t, snap.Family.Members, 1)
	assert.Equal(t, user.ID, snap.Family.Members[0].ID)
	assert.Equal(t, domain.RoleAdmin, snap.Family.Members[0].Role)

	// The returned user was read in the same transaction as the mutation and
	// already carries the new membership.
	require.NotNil(t, snap.User.FamilyID)
	assert.Equal(t, snap.Family.ID, *snap.User.FamilyID)
	assert.Equal(t, domain.RoleAdmin, snap.User.Role)
}

func TestCreateFamily_NameValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "short@example.com")

	_, err := f.membership.CreateFamily(ctx, user.ID, " a ", nil)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = f.membership.CreateFamily(ctx, user.ID, strings.Repeat("x", 51), nil)
	require.ErrorAs(t, err, &verr)
}

func TestCreateFamily_AlreadyInFamily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "twice@example.com")

	first, err := f.membership.CreateFamily(ctx, user.ID, "First", nil)
	require.NoError(t, err)

	_, err = f.membership.CreateFamily(ctx, user.ID, "Second", nil)
	var already *service.AlreadyInFamilyError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, first.Family.ID, already.Family.ID)
}

// Concurrent creates from the same user must result in exactly one success;
// every loser gets AlreadyInFamilyError, never a raw driver error. Writers
// queue on the busy timeout, so even a pile-up of eight resolves cleanly.
func TestCreateFamily_ConcurrentSameUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "race@example.com")

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.membership.CreateFamily(ctx, user.ID, "Racers", nil)
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var already *service.AlreadyInFamilyError
		require.ErrorAs(t, err, &already)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestJoinFamily_CaseInsensitiveCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	creator := f.seedUser(t, "a@example.com")
	joiner := f.seedUser(t, "b@example.com")

	created, err := f.membership.CreateFamily(ctx, creator.ID, "Smiths", nil)
	require.NoError(t, err)

	snap, err := f.membership.JoinFamily(ctx, joiner.ID, strings.ToLower(created.Family.FamilyCode))
	require.NoError(t, err)

	require.NotNil(t, snap.Family)
	assert.Equal(t, created.Family.ID, snap.Family.ID)
	assert.Equal(t, 2, snap.Family.MemberCount())
	assert.Equal(t, domain.RoleMember, snap.User.Role)

	got, err := f.store.Users().GetUserByID(ctx, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, got.Role)
}

func TestJoinFamily_UnknownCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "lost@example.com")

	_, err := f.membership.JoinFamily(ctx, user.ID, "ZZZZZZZZ")
	assert.ErrorIs(t, err, service.ErrFamilyNotFound)

	// The failed join must not have mutated the user.
	got, err := f.store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FamilyID)
}

func TestJoinFamily_AlreadyInFamily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	creatorA := f.seedUser(t, "a@example.com")
	creatorB := f.seedUser(t, "b@example.com")

	familyA, err := f.membership.CreateFamily(ctx, creatorA.ID, "Family A", nil)
	require.NoError(t, err)
	familyB, err := f.membership.CreateFamily(ctx, creatorB.ID, "Family B", nil)
	require.NoError(t, err)

	_, err = f.membership.JoinFamily(ctx, creatorA.ID, familyB.Family.FamilyCode)
	var already *service.AlreadyInFamilyError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, familyA.Family.ID, already.Family.ID)
}

func TestValidateCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.seedUser(t, "owner@example.com")

	created, err := f.membership.CreateFamily(ctx, creator.ID, "Preview", nil)
	require.NoError(t, err)

	view, err := f.membership.ValidateCode(ctx, strings.ToLower(created.Family.FamilyCode))
	require.NoError(t, err)
	assert.Equal(t, "Preview", view.Name)
	assert.Equal(t, 1, view.MemberCount())

	_, err = f.membership.ValidateCode(ctx, "NOPE0000")
	assert.ErrorIs(t, err, service.ErrFamilyNotFound)
}

func TestLeave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "leaver@example.com")

	_, err := f.membership.CreateFamily(ctx, user.ID, "Temporary", nil)
	require.NoError(t, err)

	require.NoError(t, f.membership.Leave(ctx, user.ID))

	got, err := f.store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FamilyID)
	assert.Equal(t, domain.RoleMember, got.Role)

	assert.ErrorIs(t, f.membership.Leave(ctx, user.ID), service.ErrNotInFamily)
}

// A family keeps existing after its last member leaves; codes stay resolvable.
func TestLeave_OrphanFamilyRetained(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "solo@example.com")

	created, err := f.membership.CreateFamily(ctx, user.ID, "Ghost Town", nil)
	require.NoError(t, err)
	require.NoError(t, f.membership.Leave(ctx, user.ID))

	view, err := f.membership.ValidateCode(ctx, created.Family.FamilyCode)
	require.NoError(t, err)
	assert.Equal(t, 0, view.MemberCount())
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.seedUser(t, "admin@example.com")
	member := f.seedUser(t, "member@example.com")

	created, err := f.membership.CreateFamily(ctx, admin.ID, "Strict", nil)
	require.NoError(t, err)
	_, err = f.membership.JoinFamily(ctx, member.ID, created.Family.FamilyCode)
	require.NoError(t, err)

	require.NoError(t, f.membership.RemoveMember(ctx, admin.ID, member.ID, created.Family.ID))

	got, err := f.store.Users().GetUserByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FamilyID)
	assert.Equal(t, domain.RoleMember, got.Role)
}

func TestRemoveMember_MemberLacksRights(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.seedUser(t, "admin@example.com")
	member := f.seedUser(t, "member@example.com")

	created, err := f.membership.CreateFamily(ctx, admin.ID, "Strict", nil)
	require.NoError(t, err)
	_, err = f.membership.JoinFamily(ctx, member.ID, created.Family.FamilyCode)
	require.NoError(t, err)

	err = f.membership.RemoveMember(ctx, member.ID, admin.ID, created.Family.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestRemoveMember_AdminCannotTargetSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "admin@example.com")

	created, err := f.membership.CreateFamily(ctx, admin.ID, "Solo Admin", nil)
	require.NoError(t, err)

	err = f.membership.RemoveMember(ctx, admin.ID, admin.ID, created.Family.ID)
	assert.ErrorIs(t, err, service.ErrAdminSelfRemoval)

	// Membership unchanged.
	got, err := f.store.Users().GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FamilyID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestRemoveMember_TargetOutsideFamily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.seedUser(t, "admin@example.com")
	outsider := f.seedUser(t, "outsider@example.com")

	created, err := f.membership.CreateFamily(ctx, admin.ID, "Walled", nil)
	require.NoError(t, err)

	err = f.membership.RemoveMember(ctx, admin.ID, outsider.ID, created.Family.ID)
	assert.ErrorIs(t, err, service.ErrMemberNotFound)
}

func TestChangeRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.seedUser(t, "admin@example.com")
	member := f.seedUser(t, "member@example.com")

	created, err := f.membership.CreateFamily(ctx, admin.ID, "Promoters", nil)
	require.NoError(t, err)
	_, err = f.membership.JoinFamily(ctx, member.ID, created.Family.FamilyCode)
	require.NoError(t, err)

	promoted, err := f.membership.ChangeRole(ctx, admin.ID, member.ID, created.Family.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	err = f.membership.Leave(ctx, admin.ID)
	require.NoError(t, err)

	_, err = f.membership.ChangeRole(ctx, member.ID, member.ID, created.Family.ID, domain.RoleMember)
	require.NoError(t, err)
}

func TestChangeRole_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.seedUser(t, "admin@example.com")
	member := f.seedUser(t, "member@example.com")

	created, err := f.membership.CreateFamily(ctx, admin.ID, "Locked", nil)
	require.NoError(t, err)
	_, err = f.membership.JoinFamily(ctx, member.ID, created.Family.FamilyCode)
	require.NoError(t, err)

	_, err = f.membership.ChangeRole(ctx, member.ID, admin.ID, created.Family.ID, domain.RoleMember)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.membership.ChangeRole(ctx, admin.ID, member.ID, created.Family.ID, domain.Role("owner"))
	assert.ErrorIs(t, err, service.ErrInvalidRole)
}

// Nothing stops an admin demoting themself and leaving the family with zero
// admins. That gap is intentional; this test pins the current behavior.
func TestChangeRole_FamilyCanLoseLastAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "admin@example.com")

	created, err := f.membership.CreateFamily(ctx, admin.ID, "Headless", nil)
	require.NoError(t, err)

	_, err = f.membership.ChangeRole(ctx, admin.ID, admin.ID, created.Family.ID, domain.RoleMember)
	require.NoError(t, err)

	members, err := f.membership.Members(ctx, admin.ID, created.Family.ID)
	require.NoError(t, err)
	for _, m := range members {
		assert.NotEqual(t, domain.RoleAdmin, m.Role)
	}
}

func TestMembers_RequiresMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.seedUser(t, "admin@example.com")
	outsider := f.seedUser(t, "outsider@example.com")

	created, err := f.membership.CreateFamily(ctx, admin.ID, "Private", nil)
	require.NoError(t, err)

	_, err = f.membership.Members(ctx, outsider.ID, created.Family.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestSnapshot_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "stable@example.com")

	_, err := f.membership.CreateFamily(ctx, user.ID, "Steady", nil)
	require.NoError(t, err)

	first, err := f.membership.Snapshot(ctx, user.ID)
	require.NoError(t, err)
	second, err := f.membership.Snapshot(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSnapshot_NoFamily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alone@example.com")

	snap, err := f.membership.Snapshot(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, snap.User.ID)
	assert.Nil(t, snap.Family)
}
