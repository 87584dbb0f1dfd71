package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres error codes the repositories translate
const (
	codeUndefinedColumn = "42703"
	codeUniqueViolation = "23505"
)

// Open connects to PostgreSQL and optionally creates or extends the catalog tables
func Open(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if autoMigrate {
		if err := db.AutoMigrate(&categoryModel{}, &productModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate postgres schema: %w", err)
		}
		log.Info().Msg("PostgreSQL schema ready")
	}

	return db, nil
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
