package mysql

import (
	"database/sql"
	"fmt"
	"reflect"
	"testing"
	"time"
)

type stubRow struct {
	values []any
	err    error
}

func (r *stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func userRowValues() []any {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []any{
		int64(1), "alice", "alice@example.com", "hash", "0812345678",
		25, "male", 175.0, 70.0, "maintain weight",
		sql.NullString{}, sql.NullTime{}, sql.NullTime{},
		created, created,
	}
}

func TestScanUser_NullColumnsBecomeZeroValues(t *testing.T) {
	u, err := scanUser(&stubRow{values: userRowValues()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u == nil {
		t.Fatal("expected a user")
	}
	if u.Username != "alice" || u.Height != 175 {
		t.Errorf("unexpected user %+v", u)
	}
	if u.RefreshToken != "" {
		t.Errorf("NULL refresh token should scan empty, got %q", u.RefreshToken)
	}
	if !u.RefreshTokenExpiresAt.IsZero() {
		t.Errorf("NULL expiry should scan zero, got %v", u.RefreshTokenExpiresAt)
	}
	if !u.LastLoginAt.IsZero() {
		t.Errorf("NULL last login should scan zero, got %v", u.LastLoginAt)
	}
}

func TestScanUser_PopulatedNullableColumns(t *testing.T) {
	expiry := time.Date(2026, 9, 28, 12, 0, 0, 0, time.UTC)
	login := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)

	values := userRowValues()
	values[10] = sql.NullString{String: "tok-1", Valid: true}
	values[11] = sql.NullTime{Time: expiry, Valid: true}
	values[12] = sql.NullTime{Time: login, Valid: true}

	u, err := scanUser(&stubRow{values: values})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u.RefreshToken != "tok-1" {
		t.Errorf("expected refresh token tok-1, got %q", u.RefreshToken)
	}
	if !u.RefreshTokenExpiresAt.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, u.RefreshTokenExpiresAt)
	}
	if !u.LastLoginAt.Equal(login) {
		t.Errorf("expected last login %v, got %v", login, u.LastLoginAt)
	}
}

func TestScanUser_NoRows(t *testing.T) {
	u, err := scanUser(&stubRow{err: sql.ErrNoRows})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u != nil {
		t.Errorf("expected nil user, got %+v", u)
	}
}
