package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/famlyapp/famly/internal/famly/domain"
	"github.com/famlyapp/famly/internal/famly/service"
	"github.com/famlyapp/famly/pkg/idx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) seedFamily(t *testing.T, code string) domain.Family {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	fam := domain.Family{
		ID:         idx.New().String(),
		Name:       "Seed Family",
		FamilyCode: code,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.store.Families().CreateFamily(context.Background(), fam))
	return fam
}

func TestCodeGenerator_Format(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gen := service.NewCodeGenerator()
	code, err := gen.Generate(ctx, f.store.Families())
	require.NoError(t, err)

	assert.Len(t, code, domain.CodeLength)
	for _, c := range code {
		assert.Contains(t, domain.CodeAlphabet, string(c))
	}
}

func TestCodeGenerator_AvoidsExistingCodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Constrain the keyspace to 2 codes and occupy one of them; every draw
	// must land on the free one.
	f.seedFamily(t, "A")

	gen := &service.CodeGenerator{Alphabet: "AB", Length: 1, MaxAttempts: 100}
	for i := 0; i < 10; i++ {
		code, err := gen.Generate(ctx, f.store.Families())
		require.NoError(t, err)
		assert.Equal(t, "B", code)
	}
}

func TestCodeGenerator_Exhaustion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Single-code keyspace, already taken.
	f.seedFamily(t, "A")

	gen := &service.CodeGenerator{Alphabet: "A", Length: 1, MaxAttempts: 10}
	_, err := gen.Generate(ctx, f.store.Families())
	assert.ErrorIs(t, err, service.ErrCodeSpaceExhausted)
}
