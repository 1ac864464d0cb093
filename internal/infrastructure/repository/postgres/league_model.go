package postgres

import (
	"time"

	"github.com/lib/pq"
)

type leagueTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	Name        string         `db:"name"`
	Status      string         `db:"status"`
	StartDate   time.Time      `db:"start_date"`
	EndDate     time.Time      `db:"end_date"`
	Timezone    string         `db:"timezone"`
	HostUserID  string         `db:"host_user_id"`
	GovernorIDs pq.StringArray `db:"governor_ids"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   *time.Time     `db:"deleted_at"`
}
