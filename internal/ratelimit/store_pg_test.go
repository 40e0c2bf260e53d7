package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockPGStore(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPGStore(db), mock
}

func testHit(now time.Time) Hit {
	return Hit{
		Key:       Key("u", "ep"),
		UserID:    "u",
		Endpoint:  "ep",
		Now:       now,
		Max:       2,
		Window:    time.Minute,
		Retention: time.Hour,
	}
}

func windowRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"request_count", "window_start", "expires_at"})
}

func TestPGStore_ApplyNewWindow(t *testing.T) {
	store, mock := newMockPGStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	h := testHit(now)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rate_limit_windows").
		WithArgs(h.Key, "u", "ep", now.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT request_count, window_start, expires_at FROM rate_limit_windows").
		WithArgs(h.Key).
		WillReturnRows(windowRows().AddRow(0, time.Unix(0, 0).UTC(), now.Add(time.Hour)))
	mock.ExpectExec("UPDATE rate_limit_windows SET request_count").
		WithArgs(1, now, now.Add(time.Hour), h.Key).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, allowed, err := store.Apply(context.Background(), h)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !allowed {
		t.Error("Expected first request to be allowed")
	}
	if w.Count != 1 || !w.WindowStart.Equal(now) {
		t.Errorf("Expected new window at now with count 1, got %+v", w)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStore_ApplyDeniedDoesNotWrite(t *testing.T) {
	store, mock := newMockPGStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC)
	start := now.Add(-30 * time.Second)
	h := testHit(now)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rate_limit_windows").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT request_count, window_start, expires_at FROM rate_limit_windows").
		WithArgs(h.Key).
		WillReturnRows(windowRows().AddRow(2, start, start.Add(time.Hour)))
	mock.ExpectCommit()

	w, allowed, err := store.Apply(context.Background(), h)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if allowed {
		t.Error("Expected request over the limit to be denied")
	}
	if w.Count != 2 {
		t.Errorf("Expected count to stay 2, got %d", w.Count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStore_ApplyRollsBackOnError(t *testing.T) {
	store, mock := newMockPGStore(t)
	h := testHit(time.Now())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rate_limit_windows").
		WillReturnError(errors.New("connection refused"))
	mock.ExpectRollback()

	if _, _, err := store.Apply(context.Background(), h); err == nil {
		t.Fatal("Expected an error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStore_Refund(t *testing.T) {
	store, mock := newMockPGStore(t)

	mock.ExpectExec("UPDATE rate_limit_windows SET request_count = GREATEST").
		WithArgs(Key("u", "ep")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE rate_limit_windows SET request_count = GREATEST").
		WithArgs(Key("u", "ep")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	refunded, err := store.Refund(context.Background(), Key("u", "ep"))
	if err != nil || !refunded {
		t.Errorf("Expected refund, got refunded=%v err=%v", refunded, err)
	}
	refunded, err = store.Refund(context.Background(), Key("u", "ep"))
	if err != nil || refunded {
		t.Errorf("Expected no refund at zero, got refunded=%v err=%v", refunded, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStore_DeleteExpired(t *testing.T) {
	store, mock := newMockPGStore(t)
	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM rate_limit_windows WHERE expires_at").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := store.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 deleted, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
