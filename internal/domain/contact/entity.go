// internal/domain/contact/entity.go
package contact

import "time"

// Contact is an emergency contact attached to an account.
type Contact struct {
	ID        string    `json:"id" db:"id"`
	AccountID string    `json:"account_id" db:"account_id"`
	Name      string    `json:"name" db:"name"`
	Relation  string    `json:"relation" db:"relation"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
