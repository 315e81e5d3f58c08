package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const mainSchema = "main"

// ErrEmptyImage is returned when an image is a valid database without any tables.
var ErrEmptyImage = errors.New("store image holds no tables")

// Options tunes an opened store.
type Options struct {
	LogLevel logger.LogLevel
}

// Database is an embedded in-memory SQLite database.
//
// The whole database lives on a single pinned connection: an in-memory
// SQLite database is private to the connection that created it, so the
// pool must never open a second one or recycle the first.
type Database struct {
	DB *gorm.DB

	sqlDB *sql.DB
}

// Open creates an in-memory database. A non-nil image is loaded into it
// as the full initial contents.
func Open(ctx context.Context, image []byte, opts Options) (*Database, error) {
	sqlDB, err := sql.Open(sqlite.DriverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded store: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	db, err := gorm.Open(&sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to embedded store: %w", err)
	}

	database := &Database{DB: db, sqlDB: sqlDB}

	if image != nil {
		if err := database.deserialize(ctx, image); err != nil {
			sqlDB.Close()
			return nil, err
		}
		log.Printf("Store: loaded image of %d bytes", len(image))
	}

	return database, nil
}

// Serialize exports the complete current database as a SQLite file image.
func (d *Database) Serialize(ctx context.Context) ([]byte, error) {
	var image []byte
	err := d.withSQLiteConn(ctx, func(conn *sqlite3.SQLiteConn) error {
		var err error
		image, err = conn.Serialize(mainSchema)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize store: %w", err)
	}
	return image, nil
}

// deserialize copies image into the pinned connection. The image is first
// deserialized on a scratch connection and then copied with the online
// backup API, since a deserialized buffer cannot grow and the store must
// accept new tables and rows.
func (d *Database) deserialize(ctx context.Context, image []byte) error {
	scratch, err := sql.Open(sqlite.DriverName, ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open scratch store: %w", err)
	}
	defer scratch.Close()
	scratch.SetMaxOpenConns(1)

	err = withSQLiteConn(ctx, scratch, func(src *sqlite3.SQLiteConn) error {
		if err := src.Deserialize(image, mainSchema); err != nil {
			return err
		}
		return withSQLiteConn(ctx, d.sqlDB, func(dst *sqlite3.SQLiteConn) error {
			return copyDatabase(dst, src)
		})
	})
	if err != nil {
		return fmt.Errorf("failed to load store image: %w", err)
	}

	var objects int64
	if err := d.DB.WithContext(ctx).Raw("SELECT count(*) FROM sqlite_master").Scan(&objects).Error; err != nil {
		return fmt.Errorf("failed to read store image: %w", err)
	}
	if objects == 0 {
		return ErrEmptyImage
	}
	return nil
}

func copyDatabase(dst, src *sqlite3.SQLiteConn) error {
	backup, err := dst.Backup(mainSchema, src, mainSchema)
	if err != nil {
		return err
	}
	if _, err := backup.Step(-1); err != nil {
		backup.Finish()
		return err
	}
	return backup.Finish()
}

func (d *Database) withSQLiteConn(ctx context.Context, fn func(conn *sqlite3.SQLiteConn) error) error {
	return withSQLiteConn(ctx, d.sqlDB, fn)
}

func withSQLiteConn(ctx context.Context, db *sql.DB, fn func(conn *sqlite3.SQLiteConn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		sqliteConn, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return fn(sqliteConn)
	})
}

// HasTable reports whether table exists.
func (d *Database) HasTable(table string) bool {
	return d.DB.Migrator().HasTable(table)
}

func (d *Database) Ping(ctx context.Context) error {
	return d.sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	if d == nil || d.sqlDB == nil {
		return errors.New("database is not open")
	}
	return d.sqlDB.Close()
}

// ParseLogLevel maps silent|error|warn|info to a gorm log level, defaulting to warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
