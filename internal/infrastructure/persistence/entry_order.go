package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// entrySortColumns maps the sort keys accepted by the listing API to columns.
// Anything else falls back to created_at, so caller input never reaches SQL.
var entrySortColumns = map[string]string{
	"created_at":      "created_at",
	"updated_at":      "updated_at",
	"amount":          "amount",
	"direction":       "direction",
	"channel":         "channel",
	"outstanding_due": "outstanding_due",
}

// entryOrder builds the ORDER BY for an entry listing. Direction defaults to
// newest first; only "asc" in any case flips it.
func entryOrder(orderBy, orderDir string) clause.OrderBy {
	column, ok := entrySortColumns[strings.TrimSpace(orderBy)]
	if !ok {
		column = "created_at"
	}
	desc := !strings.EqualFold(strings.TrimSpace(orderDir), "asc")
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: column}, Desc: desc},
		{Column: clause.Column{Name: "id"}, Desc: desc},
	}}
}
