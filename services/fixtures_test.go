package services

import (
	"context"
	"testing"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ============================================
// Fixtures compartidos por los tests
// ============================================

func newTestContext(t *testing.T) repositories.DataContext {
	t.Helper()
	dc, err := repositories.NewFileContext(t.TempDir())
	require.NoError(t, err)
	return dc
}

func newSQLiteTestContext(t *testing.T) repositories.DataContext {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	dc := repositories.NewGormContext(db)
	require.NoError(t, dc.Migrate(context.Background()))
	return dc
}

func testSettings() config.Settings {
	return config.DefaultSettings()
}

func createUser(t *testing.T, dc repositories.DataContext, email string) *domain.User {
	t.Helper()
	user, err := NewUserService(dc).Create(context.Background(), &domain.User{
		FirstName:    "Ana",
		LastName:     "Pérez",
		EmailAddress: email,
		Password:     "secret123",
	}, true)
	require.NoError(t, err)
	return user
}

func createListing(t *testing.T, dc repositories.DataContext, host *domain.User, title string, price float64) *domain.Listing {
	t.Helper()
	listing, err := NewListingService(dc, testSettings().Listing, nil).Create(context.Background(), &domain.Listing{
		Title:  title,
		HostID: host.ID,
		City:   "Córdoba",
		Price:  domain.Money{Amount: price, Currency: "USD"},
	}, true)
	require.NoError(t, err)
	return listing
}
