package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"gorm.io/gorm"

	"teamdesk/internal/db"
	apperrors "teamdesk/internal/errors"
)

// base resolves the shared handle and translates driver errors into the
// domain taxonomy.
type base struct {
	conn db.Connector
}

func (b base) session(ctx context.Context) (*gorm.DB, error) {
	gdb, err := b.conn.DB(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return gdb.WithContext(ctx), nil
}

// translate maps GORM and driver errors onto domain errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound.Wrap(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrDuplicate.Wrap(err)
	case isConnectivity(err):
		return apperrors.StoreUnavailable(err)
	}
	return err
}

func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
