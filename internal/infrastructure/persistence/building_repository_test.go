package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
)

func setupBuildingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE buildings (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			name TEXT NOT NULL,
			address TEXT
		)
	`).Error
	require.NoError(t, err)

	return db
}

func saveTestBuilding(t *testing.T, repo *GormBuildingRepository, name, address string) *rental.Building {
	building, err := rental.NewBuilding(name, address)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), building))
	return building
}

func TestGormBuildingRepository_Count(t *testing.T) {
	db := setupBuildingTestDB(t)
	ctx := context.Background()

	// Exercise Count through the domain interface
	var repo rental.BuildingRepository = NewGormBuildingRepository(db)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	gormRepo := repo.(*GormBuildingRepository)
	saveTestBuilding(t, gormRepo, "Nha Tro A", "12 Ly Thuong Kiet")
	saveTestBuilding(t, gormRepo, "Nha Tro B", "34 Tran Hung Dao")

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormBuildingRepository_FindAll(t *testing.T) {
	db := setupBuildingTestDB(t)
	ctx := context.Background()
	repo := NewGormBuildingRepository(db)

	saveTestBuilding(t, repo, "Nha Tro A", "12 Ly Thuong Kiet")
	saveTestBuilding(t, repo, "Chung Cu Mini", "56 Nguyen Trai")

	all, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filter := shared.DefaultFilter()
	filter.Search = "mini"
	matched, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Chung Cu Mini", matched[0].Name)
}
