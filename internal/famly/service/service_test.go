package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/famlyapp/famly/internal/famly/domain"
	"github.com/famlyapp/famly/internal/famly/service"
	"github.com/famlyapp/famly/internal/famly/store/drivers/sqlite"
	"github.com/famlyapp/famly/pkg/idx"
	"github.com/famlyapp/famly/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

// fixture bundles the services over a fresh migrated sqlite store.
type fixture struct {
	store      *sqlite.Store
	membership *service.MembershipService
	accounts   *service.AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		filepath.Join(t.TempDir(), "famly_test.db"))

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	codec, err := jwtx.NewCodec([]byte("test-secret-test-secret-test-1234"), "famly-test")
	require.NoError(t, err)

	membership := &service.MembershipService{
		Store: s,
		Codes: service.NewCodeGenerator(),
	}
	accounts := &service.AccountService{
		Store:      s,
		Codec:      codec,
		SessionTTL: time.Hour,
		Membership: membership,
	}
	return &fixture{store: s, membership: membership, accounts: accounts}
}

// seedUser inserts a user directly, bypassing registration.
func (f *fixture) seedUser(t *testing.T, email string) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Seed User",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.store.Users().CreateUser(context.Background(), u))
	return u
}
