package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/famlyapp/famly/internal/famly/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, name, phone, password_hash, family_id, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u        domain.User
		phone    sql.NullString
		familyID sql.NullString
		role     string
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &phone, &u.PasswordHash,
		&familyID, &role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Phone = mapNullString(phone)
	u.FamilyID = mapNullString(familyID)
	u.Role = domain.Role(role)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, phone, password_hash, family_id, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, mapOptionalString(u.Phone), u.PasswordHash,
		mapOptionalString(u.FamilyID), string(u.Role), u.CreatedAt, u.UpdatedAt,
	)
	return mapUnique(err, "users.email")
}

func (r *usersRepo) SetMembership(
	ctx context.Context,
	userID string,
	familyID *string,
	role domain.Role,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET family_id = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		mapOptionalString(familyID), string(role), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) ListFamilyMembers(ctx context.Context, familyID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE family_id = ? ORDER BY created_at, id`,
		familyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (r *usersRepo) CountFamilyMembers(ctx context.Context, familyID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE family_id = ?`, familyID,
	).Scan(&count)
	return count, err
}
