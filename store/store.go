package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"marketplace-messenger/apperr"

	"gorm.io/gorm"
)

const DefaultTimeout = 5 * time.Second

type Options struct {
	// Timeout bounds every storage round-trip. Zero means DefaultTimeout.
	Timeout time.Duration
	// Now stamps created_at and last_activity. Defaults to time.Now.
	Now func() time.Time
}

type base struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

func newBase(db *gorm.DB, opts Options) base {
	b := base{db: db, timeout: opts.Timeout, now: opts.Now}
	if b.timeout <= 0 {
		b.timeout = DefaultTimeout
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// conn returns a session bound to a deadline derived from ctx.
func (b base) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	return b.db.WithContext(ctx), cancel
}

// translate maps driver and gorm errors onto error kinds. notFound replaces
// gorm.ErrRecordNotFound when given.
func translate(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFound != nil {
			return notFound
		}
		return apperr.NotFound("record not found")
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout("storage timeout", err)
	}

	var netErr net.Error
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.As(err, &netErr) {
		return apperr.Unavailable("storage unavailable", err)
	}

	return apperr.Internal(op, err)
}
