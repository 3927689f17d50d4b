package migrate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"gorm.io/gorm"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Таблица версий своя, чтобы не пересекаться с другими сервисами в той же базе
const versionTable = "exchange_schema_migrations"

// RequiredVersion - последняя миграция, без которой сервис не стартует:
// триггеры NOTIFY и журнал закрепленных котировок
const RequiredVersion uint = 3

var ErrDirtySchema = errors.New("schema is dirty")

type schemaRunner interface {
	Up() error
	Version() (version uint, dirty bool, err error)
}

// Apply накатывает SQL-миграции из path и проверяет итоговую версию схемы.
func Apply(db *gorm.DB, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: versionTable})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", path, err)
	}
	// m.Close закрыл бы и общий с gorm пул соединений, поэтому не вызываем
	return apply(m, logger.With("path", path))
}

func apply(m schemaRunner, logger *slog.Logger) error {
	from, err := currentVersion(m)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations from version %d: %w", from, err)
		}
		logger.Info("schema is up to date", "version", from)
	}
	to, err := currentVersion(m)
	if err != nil {
		return err
	}
	if to < RequiredVersion {
		return fmt.Errorf("schema version %d is older than required %d", to, RequiredVersion)
	}
	if to != from {
		logger.Info("migrations applied", "from", from, "to", to)
	}
	return nil
}

// currentVersion возвращает 0 для пустой базы; dirty-схему чинят руками через migrate force
func currentVersion(m schemaRunner) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}
	return version, nil
}
