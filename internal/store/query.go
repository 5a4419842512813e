package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 200
	maxLimit     = 1000
)

const basePhotosSelect = `SELECT id, owner_id, image_ref, filename, upload_order, sku, item_id, status,
	created_at, updated_at
FROM photos`

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a photo
// query scoped to an owner. Results are always ordered by upload order,
// which downstream grouping depends on.
func (q *PhotoQuery) ToSQL(ownerID string) (dataSQL string, args []any) {
	conditions := []string{"owner_id = $1"}
	args = append(args, ownerID)
	paramIdx := 2

	if q.SKU != nil {
		conditions = append(conditions, fmt.Sprintf("sku = $%d", paramIdx))
		args = append(args, *q.SKU)
		paramIdx++
	}

	if q.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramIdx))
		args = append(args, string(*q.Status))
		paramIdx++
	}

	if q.HasSKU != nil {
		if *q.HasSKU {
			conditions = append(conditions, "sku IS NOT NULL")
		} else {
			conditions = append(conditions, "sku IS NULL")
		}
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY upload_order ASC, created_at ASC, id ASC LIMIT %d OFFSET %d",
		basePhotosSelect, whereClause, limit, offset,
	)

	return dataSQL, args
}
