// Package testutil provides the in-memory test database and the mock
// provider used across the test suites.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/qres429/chatdoc-pro/internal/database"
)

// OpenTestDB opens a fresh in-memory sqlite database with the full schema
// migrated. Each call gets its own database.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// ProviderCall records one Generate invocation for assertions.
type ProviderCall struct {
	APIKey       string
	SystemPrompt string
	Prompt       string
}

// MockProvider is a func-field mock of llm.Provider.
type MockProvider struct {
	GenerateFunc func(ctx context.Context, apiKey, systemPrompt, prompt string) (string, error)
	Calls        []ProviderCall
}

func (m *MockProvider) Generate(ctx context.Context, apiKey, systemPrompt, prompt string) (string, error) {
	m.Calls = append(m.Calls, ProviderCall{APIKey: apiKey, SystemPrompt: systemPrompt, Prompt: prompt})
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, apiKey, systemPrompt, prompt)
	}
	return "", errors.New("not implemented")
}
