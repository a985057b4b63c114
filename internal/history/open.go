package history

import (
	"database/sql"
	"fmt"
)

// Open connects to the session database. Callers register the driver via
// a blank import (mattn/go-sqlite3 or lib/pq).
func Open(driver, dsn string) (*sql.DB, error) {
	var name string
	switch driver {
	case "sqlite":
		name = "sqlite3"
	case "postgres":
		name = "postgres"
	default:
		return nil, fmt.Errorf("unsupported history driver: %s", driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	return db, nil
}
