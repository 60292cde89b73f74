package postgres

import (
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"privasee/internal/config"
)

// NewDB opens the connection pool backing the batch-run repository. The
// pool limits come from config so deployments can size them per host.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	log.Printf("postgres.NewDB: connected to %s/%s", cfg.Host, cfg.Name)
	return db, nil
}
