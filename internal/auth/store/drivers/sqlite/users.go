package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, string(u.Role), now, now)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

// ListWithStoreOwnership joins users against their managed stores in a single
// pass; users without assignments come back with an empty StoreIDs.
func (r *usersRepo) ListWithStoreOwnership(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.role, sm.store_id
		FROM users u
		LEFT JOIN store_managers sm ON sm.user_id = u.id
		ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Snapshot
	for rows.Next() {
		var (
			id      int64
			role    string
			storeID sql.NullInt64
		)
		if err := rows.Scan(&id, &role, &storeID); err != nil {
			return nil, err
		}

		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, domain.Snapshot{ID: id, Role: domain.Role(role)})
		}
		if storeID.Valid {
			last := &out[len(out)-1]
			last.StoreIDs = append(last.StoreIDs, storeID.Int64)
		}
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	return u, nil
}
