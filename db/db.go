package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	_ "github.com/lib/pq"
)

var ErrNotFound = errors.New("record not found")

// Open connects to Postgres and verifies the connection.
func Open(databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// toJSONB marshals v for a JSONB column. Nil slices and maps are stored as
// empty containers rather than null.
func toJSONB(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return []byte("[]"), nil
	}
	if rv.Kind() == reflect.Map && rv.IsNil() {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

func fromJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func notFoundIfNoRows(err error, what string, id int) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s with id %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func expectAffected(res sql.Result, what string, id int) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s with id %d: %w", what, id, ErrNotFound)
	}
	return nil
}
