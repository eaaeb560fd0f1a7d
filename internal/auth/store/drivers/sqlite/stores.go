package sqlite

import (
	"context"
	"database/sql"
	"time"
)

type storesRepo struct {
	db *sql.DB
}

func (r *storesRepo) StoreExists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM bookstores WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *storesRepo) CreateStore(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bookstores (name, created_at) VALUES (?, ?)`,
		name, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *storesRepo) AssignManager(ctx context.Context, storeID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO store_managers (store_id, user_id, created_at)
		VALUES (?, ?, ?)`,
		storeID, userID, time.Now().UTC())
	return mapConstraint(err)
}
