package gtfsdb

import (
	"context"
	"database/sql"
	"fmt"
)

// TableCounts returns the row count of every user table.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	var tables []string
	err := c.queryRows(ctx, "table_names",
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
		func(rows *sql.Rows) error {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			tables = append(tables, name)
			return nil
		})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := c.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, err
		}
		counts[table] = count
	}

	return counts, nil
}
