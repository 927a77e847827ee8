package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cppla/homelab/config"
	"github.com/cppla/homelab/models"
)

// OpenPetitionsDB creates a fresh SQLite database with the items and entries tables.
func OpenPetitionsDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openDB(t, "petitions.db", &models.Item{}, &models.Entry{})
}

// OpenHomelabDB creates a fresh SQLite database with the page_visits table.
func OpenHomelabDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openDB(t, "homelab.db", &models.PageVisit{})
}

func openDB(t *testing.T, name string, modelDefs ...interface{}) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	db, err := config.OpenDatabase(sqlite.Open(path), "silent", modelDefs...)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateTestItem inserts a catalog item and returns it.
func CreateTestItem(t *testing.T, db *gorm.DB, name, price string, sigsPerBook int, active bool) models.Item {
	t.Helper()

	item := models.Item{
		Name:        name,
		PricePerSig: decimal.RequireFromString(price),
		SigsPerBook: sigsPerBook,
		Active:      active,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return item
}

// CreateTestEntry inserts an entry directly, bypassing ledger checks.
func CreateTestEntry(t *testing.T, db *gorm.DB, date string, itemID uint, books, sigs int, draft bool) models.Entry {
	t.Helper()

	d, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("Bad test date: %v", err)
	}
	entry := models.Entry{Date: d, ItemID: itemID, Books: books, Signatures: sigs, IsDraft: draft}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("Failed to create test entry: %v", err)
	}
	return entry
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	var buf []byte
	switch b := body.(type) {
	case string:
		buf = []byte(b)
	default:
		buf, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// Envelope mirrors the JSON response wrapper with a typed payload.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// DecodeEnvelope decodes the response body into an envelope with a T payload.
func DecodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode JSON response: %v. Body: %s", err, w.Body.String())
	}
	return env
}

// Dec parses a decimal literal.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
