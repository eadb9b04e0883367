// Package testutil seeds a throwaway database for package tests.
package testutil

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"marketplace-messenger/database"
	"marketplace-messenger/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	Buyer    int64 = 5
	Seller   int64 = 9
	Outsider int64 = 12
	Car      int64 = 42
	OtherCar int64 = 43
)

// NewDB returns a migrated sqlite database seeded with three users and two cars.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.SQLiteConnect(filepath.Join(t.TempDir(), "messenger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	users := []model.User{
		{ID: Buyer, Name: "Martin", Firstname: "Alice", Email: "alice@example.com", Phone: "0600000005"},
		{ID: Seller, Name: "Durand", Firstname: "Bob", Email: "bob@example.com", Phone: "0600000009"},
		{ID: Outsider, Name: "Petit", Firstname: "Carol", Email: "carol@example.com"},
	}
	require.NoError(t, db.Create(&users).Error)

	cars := []model.Car{
		{ID: Car, Title: "Peugeot 308", Brand: "Peugeot", AddedByID: Seller, Photos: []model.CarPhoto{
			{PhotoURL: "/uploads/308-front.jpg"},
			{PhotoURL: "/uploads/308-back.jpg"},
		}},
		{ID: OtherCar, Title: "Renault Clio", Brand: "Renault", AddedByID: Seller},
	}
	require.NoError(t, db.Create(&cars).Error)

	return db
}

// Clock hands out strictly increasing timestamps.
type Clock struct {
	mu  sync.Mutex
	cur time.Time
}

func NewClock() *Clock {
	return &Clock{cur: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}
