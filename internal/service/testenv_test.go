package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ovolkov/marketplace/internal/models"
	"github.com/ovolkov/marketplace/internal/repo"
	"github.com/ovolkov/marketplace/pkg/hash"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })

	return repo.New(db)
}

func createTestUser(t *testing.T, r *repo.GormRepo, name, role string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("test_password")
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, r *repo.GormRepo, sellerID uuid.UUID, name string, price float64) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:     name,
		Price:    price,
		Image:    "https://img.example.com/" + name + ".png",
		Category: "test",
		SellerID: sellerID,
	}
	require.NoError(t, r.DB.Create(product).Error)
	return product
}
