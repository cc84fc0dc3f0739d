package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// setupRoomTestDB creates an in-memory SQLite database for testing
func setupRoomTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE rooms (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			building_id TEXT NOT NULL,
			name TEXT NOT NULL,
			area_m2 TEXT,
			base_price TEXT NOT NULL,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			bathrooms INTEGER NOT NULL DEFAULT 0,
			image_url TEXT,
			status TEXT NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func createPersistedRoom(t *testing.T, repo *GormRoomRepository, buildingID uuid.UUID, name string) *rental.Room {
	room, err := rental.NewRoom(buildingID, name, valueobject.NewMoneyVNDFromInt(3_500_000), 1, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), room))
	return room
}

func TestGormRoomRepository_SaveAndFindByID(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewGormRoomRepository(db)

	buildingID := uuid.New()
	room := createPersistedRoom(t, repo, buildingID, "A-101")

	found, err := repo.FindByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)
	assert.Equal(t, buildingID, found.BuildingID)
	assert.Equal(t, "A-101", found.Name)
	assert.Equal(t, rental.RoomStatusEmpty, found.Status)
	assert.True(t, room.BasePrice.Equals(found.BasePrice))
}

func TestGormRoomRepository_FindByID_NotFound(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewGormRoomRepository(db)

	room, err := repo.FindByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, room)
}

func TestGormRoomRepository_FindAll_FilterByBuildingAndStatus(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	buildingA := uuid.New()
	buildingB := uuid.New()
	createPersistedRoom(t, repo, buildingA, "A-101")
	createPersistedRoom(t, repo, buildingA, "A-102")
	createPersistedRoom(t, repo, buildingB, "B-201")

	rented := createPersistedRoom(t, repo, buildingA, "A-103")
	require.NoError(t, rented.MarkRented())
	require.NoError(t, repo.Save(ctx, rented))

	rooms, err := repo.FindAll(ctx, rental.RoomFilter{
		Filter:     shared.DefaultFilter(),
		BuildingID: &buildingA,
	})
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	empty := rental.RoomStatusEmpty
	rooms, err = repo.FindAll(ctx, rental.RoomFilter{
		Filter:     shared.DefaultFilter(),
		BuildingID: &buildingA,
		Status:     &empty,
	})
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	count, err := repo.Count(ctx, rental.RoomFilter{Filter: shared.DefaultFilter(), BuildingID: &buildingA})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGormRoomRepository_SavePersistsStatusChange(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	room := createPersistedRoom(t, repo, uuid.New(), "A-101")
	require.NoError(t, room.MarkRented())
	require.NoError(t, repo.Save(ctx, room))

	found, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, rental.RoomStatusRented, found.Status)
	assert.Equal(t, room.Version, found.Version)
}

func TestGormRoomRepository_Delete(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	room := createPersistedRoom(t, repo, uuid.New(), "A-101")
	require.NoError(t, repo.Delete(ctx, room.ID))

	deleted, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	err = repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
