package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/famlyapp/famly/internal/famly/domain"
)

type familiesRepo struct {
	db dbtx
}

const familyColumns = `id, name, description, family_code, created_at, updated_at`

func scanFamily(row interface{ Scan(...any) error }) (domain.Family, error) {
	var (
		f           domain.Family
		description sql.NullString
	)
	err := row.Scan(&f.ID, &f.Name, &description, &f.FamilyCode, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return domain.Family{}, err
	}
	f.Description = mapNullString(description)
	return f, nil
}

func (r *familiesRepo) GetFamilyByID(ctx context.Context, id string) (domain.Family, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+familyColumns+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err != nil {
		return domain.Family{}, mapNotFound(err)
	}
	return f, nil
}

func (r *familiesRepo) GetFamilyByCode(ctx context.Context, code string) (domain.Family, error) {
	// Codes are stored uppercased; fold the input instead of relying on a
	// NOCASE collation so the comparison rule lives in one place.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+familyColumns+` FROM families WHERE family_code = ?`,
		strings.ToUpper(code),
	)
	f, err := scanFamily(row)
	if err != nil {
		return domain.Family{}, mapNotFound(err)
	}
	return f, nil
}

func (r *familiesRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM families WHERE family_code = ?`,
		strings.ToUpper(code),
	).Scan(&count)
	return count > 0, err
}

func (r *familiesRepo) CreateFamily(ctx context.Context, f domain.Family) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO families (id, name, description, family_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, mapOptionalString(f.Description), strings.ToUpper(f.FamilyCode),
		f.CreatedAt, f.UpdatedAt,
	)
	return mapUnique(err, "families.family_code")
}
