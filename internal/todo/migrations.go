package todo

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/asakura-dev/todo/pkg/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// initSchema は未適用のマイグレーションを順に適用してスキーマを最新化する。
func initSchema(db *sql.DB) error {
	if err := migration.Run(db, migrationsFS, "migrations"); err != nil {
		return fmt.Errorf("マイグレーションの適用に失敗: %w", err)
	}
	return nil
}
