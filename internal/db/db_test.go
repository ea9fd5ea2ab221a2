package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT, n INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTx_Commits(t *testing.T) {
	db := openTestDB(t)

	err := WithTx(db, func(tx *sql.Tx) error {
		for _, name := range []string{"a", "b"} {
			if _, err := tx.Exec(`INSERT INTO items (name) VALUES (?)`, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}
	if got := countItems(t, db); got != 2 {
		t.Errorf("rows = %d, want 2", got)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO items (name) VALUES ('a')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want %v", err, boom)
	}
	if got := countItems(t, db); got != 0 {
		t.Errorf("rows = %d, want 0 after rollback", got)
	}
}

func TestNullableColumns(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Exec(`INSERT INTO items (name, n) VALUES (?, ?), (?, ?)`,
		NonZero(""), NonZero(int64(0)), NonZero("x"), NonZero(int64(7))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var nulls int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items WHERE name IS NULL AND n IS NULL`).Scan(&nulls); err != nil {
		t.Fatal(err)
	}
	if nulls != 1 {
		t.Errorf("NULL rows = %d, want 1", nulls)
	}

	rows, err := db.Query(`SELECT name, n FROM items ORDER BY id`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	var got []string
	var sum int64
	for rows.Next() {
		var name sql.Null[string]
		var n sql.Null[int64]
		if err := rows.Scan(&name, &n); err != nil {
			t.Fatal(err)
		}
		got = append(got, Value(name))
		sum += Value(n)
	}
	if len(got) != 2 || got[0] != "" || got[1] != "x" || sum != 7 {
		t.Errorf("values = %q, sum %d", got, sum)
	}
}
