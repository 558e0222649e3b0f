package cricket

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Captain       string     `db:"captain" json:"captain"`
	ContactNumber string     `db:"contact_number" json:"contactNumber"`
	GroupID       *uuid.UUID `db:"group_id" json:"groupId"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}
