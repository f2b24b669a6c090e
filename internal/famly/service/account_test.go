package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/famlyapp/famly/internal/famly/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, token, err := f.accounts.Register(ctx, service.RegisterParams{
		Email:    "New.User@Example.COM",
		Name:     "New User",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Email is stored case-folded; password hash never leaves the service
	// as plaintext.
	assert.Equal(t, "new.user@example.com", snap.User.Email)
	assert.Nil(t, snap.Family)

	claims, err := f.accounts.Codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, snap.User.ID, claims.Subject)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var verr *service.ValidationError

	_, _, err := f.accounts.Register(ctx, service.RegisterParams{
		Email: "not-an-email", Name: "Someone", Password: "hunter22",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, _, err = f.accounts.Register(ctx, service.RegisterParams{
		Email: "a@b.com", Name: "x", Password: "hunter22",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, _, err = f.accounts.Register(ctx, service.RegisterParams{
		Email: "a@b.com", Name: "Someone", Password: "short",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	params := service.RegisterParams{
		Email: "dupe@example.com", Name: "First", Password: "hunter22",
	}
	_, _, err := f.accounts.Register(ctx, params)
	require.NoError(t, err)

	params.Name = "Second"
	_, _, err = f.accounts.Register(ctx, params)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestRegister_WithFamilyCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.seedUser(t, "creator@example.com")

	created, err := f.membership.CreateFamily(ctx, creator.ID, "Joiners", nil)
	require.NoError(t, err)

	snap, _, err := f.accounts.Register(ctx, service.RegisterParams{
		Email:      "joiner@example.com",
		Name:       "Joiner",
		Password:   "hunter22",
		FamilyCode: strings.ToLower(created.Family.FamilyCode),
	})
	require.NoError(t, err)

	require.NotNil(t, snap.Family)
	assert.Equal(t, created.Family.ID, snap.Family.ID)
	assert.Equal(t, 2, snap.Family.MemberCount())
}

// A bad family code must fail the whole registration, not leave behind an
// account with no family.
func TestRegister_UnknownFamilyCodeRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.accounts.Register(ctx, service.RegisterParams{
		Email:      "phantom@example.com",
		Name:       "Phantom",
		Password:   "hunter22",
		FamilyCode: "ZZZZZZZZ",
	})
	require.ErrorIs(t, err, service.ErrFamilyNotFound)

	_, _, err = f.accounts.Login(ctx, "phantom@example.com", "hunter22")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, _, err := f.accounts.Register(ctx, service.RegisterParams{
		Email: "login@example.com", Name: "Login User", Password: "hunter22",
	})
	require.NoError(t, err)

	snap, token, err := f.accounts.Login(ctx, "Login@Example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, registered.User.ID, snap.User.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.accounts.Register(ctx, service.RegisterParams{
		Email: "victim@example.com", Name: "Victim", Password: "hunter22",
	})
	require.NoError(t, err)

	// Wrong password and unknown email are indistinguishable.
	_, _, err = f.accounts.Login(ctx, "victim@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = f.accounts.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
