// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Account represents the core user account
type Account struct {
	ID           string       `json:"id" db:"id"`
	Email        string       `json:"email" db:"email"`
	PasswordHash string       `json:"-" db:"password_hash"`
	LastLogin    sql.NullTime `json:"last_login" db:"last_login"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// BloodType is one of the eight ABO/Rh groups; empty means not provided.
type BloodType string

const (
	BloodTypeUnknown    BloodType = ""
	BloodTypeAPositive  BloodType = "A+"
	BloodTypeANegative  BloodType = "A-"
	BloodTypeBPositive  BloodType = "B+"
	BloodTypeBNegative  BloodType = "B-"
	BloodTypeABPositive BloodType = "AB+"
	BloodTypeABNegative BloodType = "AB-"
	BloodTypeOPositive  BloodType = "O+"
	BloodTypeONegative  BloodType = "O-"
)

// Valid reports whether b is unknown or one of the eight groups.
func (b BloodType) Valid() bool {
	switch b {
	case BloodTypeUnknown,
		BloodTypeAPositive, BloodTypeANegative,
		BloodTypeBPositive, BloodTypeBNegative,
		BloodTypeABPositive, BloodTypeABNegative,
		BloodTypeOPositive, BloodTypeONegative:
		return true
	}
	return false
}

// HealthInfo holds the emergency-relevant medical answers collected at
// onboarding. Explicit fields instead of a free-form blob.
type HealthInfo struct {
	HeartCondition bool           `json:"heart_condition" db:"heart_condition"`
	Diabetes       bool           `json:"diabetes" db:"diabetes"`
	Allergies      bool           `json:"allergies" db:"allergies"`
	AllergyList    pq.StringArray `json:"allergy_list" db:"allergy_list"`
	BloodType      BloodType      `json:"blood_type" db:"blood_type"`
	Medications    pq.StringArray `json:"medications" db:"medications"`
}

// Profile represents user profile data, 1:1 with an Account. Created with
// default values the first time a session is established if none exists.
type Profile struct {
	AccountID        string     `json:"account_id" db:"account_id"`
	Email            string     `json:"email" db:"email"`
	FullName         string     `json:"full_name" db:"full_name"`
	Phone            string     `json:"phone" db:"phone"`
	EmergencyContact string     `json:"emergency_contact" db:"emergency_contact"`
	Health           HealthInfo `json:"health"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Session represents a server-side auth session
type Session struct {
	ID             int64          `json:"id" db:"id"`
	AccountID      string         `json:"account_id" db:"account_id"`
	SessionToken   string         `json:"-" db:"session_token"`
	IPAddress      sql.NullString `json:"ip_address" db:"ip_address"`
	UserAgent      sql.NullString `json:"user_agent" db:"user_agent"`
	Status         string         `json:"status" db:"status"` // active, expired, revoked
	LoginAt        time.Time      `json:"login_at" db:"login_at"`
	LastActivityAt time.Time      `json:"last_activity_at" db:"last_activity_at"`
	ExpiresAt      time.Time      `json:"expires_at" db:"expires_at"`
	LogoutAt       sql.NullTime   `json:"logout_at" db:"logout_at"`
}
