package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/votebox/internal/config"
	"github.com/emilythestrangee/votebox/internal/models"
)

// Database owns the connection pool shared by every request.
type Database struct {
	sqlDB *sql.DB
	gorm  *gorm.DB
	name  string
	log   logrus.FieldLogger
}

// New opens the pool, verifies it with a ping and creates the schema if it is
// missing.
func New(ctx context.Context, cfg config.DBConfig, log *logrus.Logger) (*Database, error) {
	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	entry := log.WithField("component", "database")

	gormLogger := logger.New(
		log.WithField("component", "gorm"),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error initializing gorm: %w", err)
	}

	entry.WithField("driver", cfg.Driver).Info("database connected")

	d := &Database{sqlDB: sqlDB, gorm: db, name: cfg.Name, log: entry}
	if err := d.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// Migrate creates vote_topics and vote_choices when absent. There is no
// versioned migration beyond that.
func (d *Database) Migrate(ctx context.Context) error {
	if err := d.gorm.WithContext(ctx).AutoMigrate(&models.Topic{}, &models.Choice{}); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}
	d.log.Info("database tables created/verified")
	return nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.gorm
}

// Health pings the database and reports pool statistics.
func (d *Database) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := d.sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"

	dbStats := d.sqlDB.Stats()
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

func (d *Database) Close() error {
	d.log.WithField("database", d.name).Info("disconnected from database")
	return d.sqlDB.Close()
}

func gormLevel(l logrus.Level) logger.LogLevel {
	switch {
	case l >= logrus.DebugLevel:
		return logger.Info
	case l >= logrus.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}
