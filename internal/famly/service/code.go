package service

import (
	"context"
	"errors"

	"github.com/famlyapp/famly/internal/famly/domain"
	"github.com/famlyapp/famly/internal/famly/store"
	"github.com/famlyapp/famly/pkg/cryptox"
)

var ErrCodeSpaceExhausted = errors.New("family code space exhausted")

// CodeGenerator draws candidate family codes and checks them for uniqueness
// against the store. It never reserves a code; the caller must persist the
// code inside the same transaction that creates the family so two concurrent
// creators cannot both commit the same candidate (the UNIQUE index on
// family_code is the final backstop).
type CodeGenerator struct {
	Alphabet    string
	Length      int
	MaxAttempts int
}

// NewCodeGenerator returns a generator with the production code format.
// Tests may constrain Alphabet/Length to exercise the exhaustion path.
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		Alphabet:    domain.CodeAlphabet,
		Length:      domain.CodeLength,
		MaxAttempts: 10,
	}
}

// Generate draws candidates until one is unused or MaxAttempts is reached.
// Exhaustion is a liveness fallback; with a 36^8 keyspace it should never
// trigger in practice.
func (g *CodeGenerator) Generate(ctx context.Context, families store.Families) (string, error) {
	for attempt := 0; attempt < g.MaxAttempts; attempt++ {
		code, err := cryptox.RandomString(g.Alphabet, g.Length)
		if err != nil {
			return "", err
		}

		exists, err := families.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
