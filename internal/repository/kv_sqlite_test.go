package repository

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newKVMock(t *testing.T) (*KVSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewKVSQLite(db), mock
}

func TestKVSQLite_PutAll_UpsertsInOneTransaction(t *testing.T) {
	repo, mock := newKVMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO counter_kv")).
		WithArgs("counterValue", "108", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO counter_kv")).
		WithArgs("timerValue", "65", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.PutAll(ctx(t), []Entry{
		{Key: "counterValue", Value: []byte("108")},
		{Key: "timerValue", Value: []byte("65")},
	})
	if err != nil {
		t.Fatalf("PutAll() error = %v", err)
	}
}

func TestKVSQLite_PutAll_ExecErrorRollsBack(t *testing.T) {
	repo, mock := newKVMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO counter_kv")).
		WithArgs("counterValue", "1", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.PutAll(ctx(t), []Entry{{Key: "counterValue", Value: []byte("1")}})
	if err == nil {
		t.Fatalf("PutAll() expected error, got nil")
	}
}

func TestKVSQLite_GetAll_ReturnsOnlyPresentKeys(t *testing.T) {
	repo, mock := newKVMock(t)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("counterValue", "42").
		AddRow("startingNumber", "7")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM counter_kv WHERE key IN (?, ?, ?)")).
		WithArgs("counterValue", "startingNumber", "timerValue").
		WillReturnRows(rows)

	got, err := repo.GetAll(ctx(t), []string{"counterValue", "startingNumber", "timerValue"})
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(got) != 2 || string(got["counterValue"]) != "42" || string(got["startingNumber"]) != "7" {
		t.Fatalf("GetAll() = %v", got)
	}
	if _, ok := got["timerValue"]; ok {
		t.Fatalf("absent key must not be returned")
	}
}

func TestKVSQLite_GetAll_QueryError(t *testing.T) {
	repo, mock := newKVMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM counter_kv")).
		WillReturnError(errors.New("locked"))

	if _, err := repo.GetAll(ctx(t), []string{"counterValue"}); err == nil {
		t.Fatalf("GetAll() expected error, got nil")
	}
}

func TestKVSQLite_DeleteAll(t *testing.T) {
	repo, mock := newKVMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM counter_kv WHERE key IN (?, ?, ?, ?, ?)")).
		WithArgs(KeyCounterValue, KeyStartingNumber, KeyCompletedCycles, KeyLastCycleCount, KeyTimerValue).
		WillReturnResult(sqlmock.NewResult(0, 5))

	if err := repo.DeleteAll(ctx(t), StateKeys); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
}

func TestKVSQLite_EmptyKeysDoNotTouchDB(t *testing.T) {
	repo, _ := newKVMock(t)

	got, err := repo.GetAll(ctx(t), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("GetAll(nil) = %v, %v", got, err)
	}
	if err := repo.DeleteAll(ctx(t), nil); err != nil {
		t.Fatalf("DeleteAll(nil) error = %v", err)
	}
}
