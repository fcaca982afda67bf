package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

// UserAdapter implements storage.UserStore for PostgreSQL.
type UserAdapter struct {
	db *sql.DB
}

// NewUserAdapter creates a user store sharing the adapter's pool.
func NewUserAdapter(db *sql.DB) *UserAdapter {
	return &UserAdapter{db: db}
}

// SaveUser inserts a user. Any unique-constraint conflict yields
// storage.ErrDuplicate: a replayed id is absorbed by the insert itself,
// so in practice the violation is the email column.
func (a *UserAdapter) SaveUser(ctx context.Context, u *v1.User) error {
	res, err := a.db.ExecContext(ctx, queryInsertUser,
		u.ID, u.Name, u.Email, u.Photo, u.Role, u.Gender, u.DOB, u.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, pqErr.Constraint)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrDuplicate
	}
	return nil
}

func (a *UserAdapter) GetUser(ctx context.Context, id string) (*v1.User, error) {
	u, err := scanUserRow(a.db.QueryRowContext(ctx, queryGetUser, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (a *UserAdapter) ListUsers(ctx context.Context) ([]*v1.User, error) {
	return a.queryUsers(ctx, queryListUsers)
}

func (a *UserAdapter) DeleteUser(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, queryDeleteUser, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRowAffected(res)
}

func (a *UserAdapter) CountUsers(ctx context.Context) (int64, error) {
	return a.count(ctx, queryCountUsers)
}

func (a *UserAdapter) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	return a.count(ctx, queryCountUsersByRole, role)
}

func (a *UserAdapter) CountUsersByGender(ctx context.Context, gender string) (int64, error) {
	return a.count(ctx, queryCountUsersByGender, gender)
}

func (a *UserAdapter) UsersCreatedBetween(ctx context.Context, r storage.DateRange) ([]*v1.User, error) {
	return a.queryUsers(ctx, queryUsersCreatedBetween, r.Start, r.End)
}

func (a *UserAdapter) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*v1.User, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*v1.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (a *UserAdapter) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}
