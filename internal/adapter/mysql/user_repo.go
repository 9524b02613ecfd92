package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"caltrack/internal/domain"
)

const userColumns = `id, username, email, password_hash, phone_number, age, gender, height, weight, goal,
	refresh_token, refresh_token_expires_at, last_login_at, created_at, updated_at`

// rowScanner is the subset of sql.Row that scanUser needs.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads one user row. The nullable columns go through sql.Null*
// wrappers: wrapping them in COALESCE instead would turn the DATETIME
// columns into VARCHAR results, which the driver no longer parses into
// time.Time even with parseTime on.
func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u            domain.User
		refreshToken sql.NullString
		refreshExp   sql.NullTime
		lastLogin    sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.PhoneNumber,
		&u.Age, &u.Gender, &u.Height, &u.Weight, &u.Goal,
		&refreshToken, &refreshExp, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.RefreshToken = refreshToken.String
	u.RefreshTokenExpiresAt = refreshExp.Time
	u.LastLoginAt = lastLogin.Time
	return &u, nil
}

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username))
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetByRefreshToken retrieves the user whose stored refresh token matches.
// Expiry is the caller's concern.
func (d *DB) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE refresh_token = ?", token))
}

// UsernameOrEmailExists reports whether either value is already taken.
func (d *DB) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ? OR email = ?", username, email,
	).Scan(&count)
	return count > 0, err
}

// Create inserts a new user and returns its id.
func (d *DB) Create(ctx context.Context, u *domain.User) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, phone_number, age, gender, height, weight, goal)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.PhoneNumber, u.Age, u.Gender, u.Height, u.Weight, u.Goal,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateLastLogin stamps the user's last login time.
func (d *DB) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := d.sql.ExecContext(ctx, "UPDATE users SET last_login_at = ? WHERE id = ?", at, id)
	return err
}

// SaveRefreshToken overwrites the user's active refresh token and expiry.
func (d *DB) SaveRefreshToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE users SET refresh_token = ?, refresh_token_expires_at = ? WHERE id = ?",
		token, expiresAt, id)
	return err
}

// ClearRefreshToken invalidates the user's refresh token server-side.
func (d *DB) ClearRefreshToken(ctx context.Context, id int64) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE users SET refresh_token = NULL, refresh_token_expires_at = NULL WHERE id = ?", id)
	return err
}

// UpdateProfile applies a partial update. The SET clause is built from a
// fixed column list; only bound parameters carry client values.
func (d *DB) UpdateProfile(ctx context.Context, id int64, patch domain.ProfilePatch) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if patch.PhoneNumber != nil {
		sets = append(sets, "phone_number = ?")
		args = append(args, *patch.PhoneNumber)
	}
	if patch.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *patch.Age)
	}
	if patch.Gender != nil {
		sets = append(sets, "gender = ?")
		args = append(args, *patch.Gender)
	}
	if patch.Height != nil {
		sets = append(sets, "height = ?")
		args = append(args, *patch.Height)
	}
	if patch.Weight != nil {
		sets = append(sets, "weight = ?")
		args = append(args, *patch.Weight)
	}
	if patch.Goal != nil {
		sets = append(sets, "goal = ?")
		args = append(args, *patch.Goal)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	_, err := d.sql.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

// Delete removes the user and every row owned by them in one transaction,
// children before parents.
func (d *DB) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	steps := []string{
		"DELETE md FROM meal_details md JOIN meals m ON md.meal_id = m.id WHERE m.user_id = ?",
		"DELETE FROM meals WHERE user_id = ?",
		"DELETE ad FROM activity_details ad JOIN activities a ON ad.activity_id = a.id WHERE a.user_id = ?",
		"DELETE FROM activities WHERE user_id = ?",
		"DELETE FROM daily_summaries WHERE user_id = ?",
	}
	for _, stmt := range steps {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return false, err
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	return true, tx.Commit()
}

// GetAdminByUsername retrieves an admin by username.
func (d *DB) GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var a domain.Admin
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM admins WHERE username = ?",
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
