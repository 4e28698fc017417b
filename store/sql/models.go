package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type relayActivityRecord struct {
	bun.BaseModel `bun:"table:relay_activity_entries,alias:rae"`

	ID         string         `bun:"id,pk"`
	SheetName  string         `bun:"sheet_name,notnull"`
	Endpoint   string         `bun:"endpoint"`
	Email      string         `bun:"email"`
	Status     string         `bun:"status,notnull"`
	StatusCode int            `bun:"status_code"`
	Detail     string         `bun:"detail"`
	Metadata   map[string]any `bun:"metadata,type:jsonb"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
