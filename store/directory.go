package store

import (
	"context"

	"marketplace-messenger/apperr"
	"marketplace-messenger/model"

	"gorm.io/gorm"
)

// Directory reads users and cars owned by the accounts and listings services.
type Directory struct {
	base
}

func NewDirectory(db *gorm.DB, opts Options) *Directory {
	return &Directory{base: newBase(db, opts)}
}

func (d *Directory) UserByID(ctx context.Context, id int64) (*model.User, error) {
	db, cancel := d.conn(ctx)
	defer cancel()

	user := new(model.User)
	if err := db.Take(user, id).Error; err != nil {
		return nil, translate("directory.UserByID", err, apperr.ErrUserNotFound)
	}
	return user, nil
}

func (d *Directory) CarByID(ctx context.Context, id int64) (*model.Car, error) {
	db, cancel := d.conn(ctx)
	defer cancel()

	car := new(model.Car)
	if err := db.Take(car, id).Error; err != nil {
		return nil, translate("directory.CarByID", err, apperr.ErrCarNotFound)
	}
	return car, nil
}
