// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/pollwidget/cliparse"
	"github.com/danielhkuo/pollwidget/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in t.TempDir and the pool is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pollwidget_test.db")
	sqlDB, _, err := db.Open(context.Background(), cliparse.DatabaseSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.CreateSchema(context.Background(), sqlDB); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return sqlDB
}

// Provider wraps a test database in a store provider
func Provider(sqlDB *sql.DB) db.Provider {
	return db.Static(sqlDB, db.SQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "pollwidget_test.db",
		DatabaseType: cliparse.DatabaseSQLite,
		CacheSize:    16,
		NATSSubject:  "pollwidget.invalidate",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// CreateTestPoll inserts a poll with a fixed id
func CreateTestPoll(t *testing.T, sqlDB *sql.DB, pollID, title string) {
	t.Helper()

	_, err := sqlDB.Exec(`INSERT INTO "Poll" (id, title) VALUES (?, ?)`, pollID, title)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
}

// AddTestOption inserts an option with a starting vote count
func AddTestOption(t *testing.T, sqlDB *sql.DB, pollID, optionID, text string, votes int64) {
	t.Helper()

	_, err := sqlDB.Exec(`
		INSERT INTO "PollOption" (id, text, votes, "pollId")
		VALUES (?, ?, ?, ?)
	`, optionID, text, votes, pollID)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}
}

// GetVotes reads an option's current count
func GetVotes(t *testing.T, sqlDB *sql.DB, optionID string) int64 {
	t.Helper()

	var votes int64
	if err := sqlDB.QueryRow(`SELECT votes FROM "PollOption" WHERE id = ?`, optionID).Scan(&votes); err != nil {
		t.Fatalf("Failed to read votes for %s: %v", optionID, err)
	}
	return votes
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
