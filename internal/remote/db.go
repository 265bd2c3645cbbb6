package remote

import (
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// OpenDB opens the backing database and migrates the schema. The DSN picks
// the dialect: "postgres://..." or "host=..." opens PostgreSQL, anything
// else is treated as a SQLite path.
func OpenDB(dsn string) (*gorm.DB, error) {
	dialect := "sqlite3"
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		dialect = "postgres"
	}

	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&groceryRecord{}, &inventoryRecord{}, &storeRecord{}, &recipeRecord{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}
