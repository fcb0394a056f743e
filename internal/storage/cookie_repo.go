package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CookieRepo is a Jar backed by the SQLite save file.
type CookieRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewCookieRepo(db *sql.DB) *CookieRepo {
	return &CookieRepo{db: db, now: time.Now}
}

// WithClock replaces the clock used for expiry checks.
func (r *CookieRepo) WithClock(now func() time.Time) *CookieRepo {
	r.now = now
	return r
}

func (r *CookieRepo) lookup(ctx context.Context, name string) (*Cookie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT name, value, expires_at, updated_at FROM cookies WHERE name = ?`, name)

	var c Cookie
	if err := row.Scan(&c.Name, &c.Value, &c.ExpiresAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("cookie get: %w", err)
	}
	return &c, nil
}

func (r *CookieRepo) Get(ctx context.Context, name string) (string, bool, error) {
	c, err := r.lookup(ctx, name)
	if err != nil {
		return "", false, err
	}
	if c == nil {
		return "", false, nil
	}
	if c.Expired(r.now()) {
		if err := r.Remove(ctx, name); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return c.Value, true, nil
}

func (r *CookieRepo) Set(ctx context.Context, name, value string, expires time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, expires_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, name, value, expires.UTC(), r.now().UTC())
	if err != nil {
		return fmt.Errorf("cookie set %s: %w", name, err)
	}
	return nil
}

func (r *CookieRepo) Remove(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name); err != nil {
				return fmt.Errorf("cookie remove %s: %w", name, err)
			}
		}
		return nil
	})
}

// List returns every live cookie ordered by name.
func (r *CookieRepo) List(ctx context.Context) ([]Cookie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, value, expires_at, updated_at
		FROM cookies
		WHERE expires_at > ?
		ORDER BY name ASC
	`, r.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("cookie list: %w", err)
	}
	defer rows.Close()

	var out []Cookie
	for rows.Next() {
		var c Cookie
		if err := rows.Scan(&c.Name, &c.Value, &c.ExpiresAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("cookie scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cookie rows: %w", err)
	}
	return out, nil
}

// PurgeExpired deletes expired rows and reports how many were removed.
func (r *CookieRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE expires_at <= ?`, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cookie purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cookie purge rows: %w", err)
	}
	return n, nil
}
