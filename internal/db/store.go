package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connector hands out a ready database handle.
type Connector interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// Hook runs once after the store connects for the first time.
type Hook func(ctx context.Context) error

// Store is the process-wide database handle. It connects lazily on first use
// and reuses the connection afterwards. A failed connect is retried on the
// next call.
type Store struct {
	driver  string
	dsn     string
	models  []interface{}
	logger  *slog.Logger
	timeout time.Duration

	mu    sync.Mutex
	db    *gorm.DB
	hooks []Hook
}

// Option configures a Store.
type Option func(*Store)

// WithModels sets the models migrated on connect.
func WithModels(models ...interface{}) Option {
	return func(s *Store) {
		s.models = append(s.models, models...)
	}
}

// WithLogger sets the logger used for connection events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConnectTimeout bounds a single connection attempt.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// NewStore returns an unconnected store for driver ("mysql" or "sqlite").
func NewStore(driver, dsn string, opts ...Option) *Store {
	s := &Store{
		driver:  strings.ToLower(driver),
		dsn:     dsn,
		logger:  slog.Default(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnConnect registers a hook run after the first successful connection.
func (s *Store) OnConnect(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// DB returns the shared handle, connecting and migrating on first use.
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	s.mu.Lock()
	if s.db != nil {
		db := s.db
		s.mu.Unlock()
		return db, nil
	}

	db, err := s.connect(ctx)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("database connect failed", slog.String("driver", s.driver), slog.String("error", err.Error()))
		return nil, err
	}
	s.db = db
	hooks := s.hooks
	s.mu.Unlock()

	s.logger.Info("database connected", slog.String("driver", s.driver))
	// Hooks may call DB themselves so they run outside the lock.
	for _, h := range hooks {
		if err := h(ctx); err != nil {
			s.logger.Warn("post-connect hook failed", slog.String("error", err.Error()))
		}
	}
	return db, nil
}

// Ping reports whether the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.DB(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

func (s *Store) connect(ctx context.Context) (*gorm.DB, error) {
	dialector, err := Dialector(s.driver, s.dsn)
	if err != nil {
		return nil, err
	}
	db, err := Open(dialector, s.logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", s.driver, err)
	}

	if dialector.Name() == "sqlite" {
		// One writer at a time avoids SQLITE_BUSY under concurrent requests.
		sqlDB.SetMaxOpenConns(1)
	}

	if len(s.models) > 0 {
		if err := db.WithContext(ctx).AutoMigrate(s.models...); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return db, nil
}

// Dialector returns the GORM dialector for driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "mysql", "":
		return mysql.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open returns a GORM DB for dialector with the service's settings. GORM
// warnings and slow queries are written through l.
func Open(dialector gorm.Dialector, l *slog.Logger) (*gorm.DB, error) {
	if l == nil {
		l = slog.Default()
	}
	dbLogger := logger.New(
		slog.NewLogLogger(l.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 dbLogger,
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}
	return db, nil
}

// Static adapts an already open handle to Connector.
type Static struct {
	db *gorm.DB
}

// NewStatic wraps db.
func NewStatic(db *gorm.DB) *Static {
	return &Static{db: db}
}

// DB returns the wrapped handle.
func (s *Static) DB(context.Context) (*gorm.DB, error) {
	return s.db, nil
}

// Ping pings the wrapped handle.
func (s *Static) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
