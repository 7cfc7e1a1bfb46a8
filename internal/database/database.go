package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gdsgames/backend/internal/config"
	"gdsgames/backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database selected by driver and runs migrations and the
// default data seed.
func Connect(driver, dsn string, l *log.Logger) (*gorm.DB, error) {
	db, err := Open(driver, dsn, logger.New(
		l, // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	))
	if err != nil {
		return nil, err
	}
	l.Println("Database connection established.")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	l.Println("Database migrated successfully.")

	if err := SeedCategories(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Open opens a gorm handle without migrating.
func Open(driver, dsn string, gl logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(dsn))
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gl,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// a single connection serializes writers and keeps ":memory:" databases
		// from splitting across connections
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// sqliteDSN turns foreign key enforcement on for every connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Game{},
		&models.LibraryEntry{},
		&models.ChatMessage{},
		&models.GameRating{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return backfillGameSearch(db)
}

// backfillGameSearch fills the search columns of games stored before they
// existed.
func backfillGameSearch(db *gorm.DB) error {
	var games []models.Game
	err := db.Select("id", "title", "description").
		Where("title_search = ''").
		Find(&games).Error
	if err != nil {
		return fmt.Errorf("failed to load games for search backfill: %w", err)
	}
	for i := range games {
		g := &games[i]
		g.FoldSearch()
		err := db.Model(&models.Game{}).Where("id = ?", g.ID).UpdateColumns(map[string]interface{}{
			"title_search":       g.TitleSearch,
			"description_search": g.DescriptionSearch,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to backfill game %s: %w", g.ID, err)
		}
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
