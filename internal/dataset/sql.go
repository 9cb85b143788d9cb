package dataset

import (
	"context"
	"fmt"

	"musescore/internal/database"
)

// LoadSQL reads every row of table.
func LoadSQL(ctx context.Context, db *database.Database, table string) ([]Row, error) {
	rows, err := db.QueryAreaRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return rows, nil
}
