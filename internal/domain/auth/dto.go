// internal/domain/auth/dto.go
package auth

import "time"

// RegisterRequest for user registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginRequest for user login
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse successful login response
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo minimal user information
type UserInfo struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
}

// ProfilePatch carries a partial profile update. Nil fields are untouched;
// the repository writes only the submitted columns.
type ProfilePatch struct {
	FullName         *string     `json:"full_name,omitempty"`
	Phone            *string     `json:"phone,omitempty"`
	EmergencyContact *string     `json:"emergency_contact,omitempty"`
	Health           *HealthInfo `json:"health,omitempty"`
}

// Empty reports whether the patch submits no fields at all.
func (p ProfilePatch) Empty() bool {
	return p.FullName == nil && p.Phone == nil &&
		p.EmergencyContact == nil && p.Health == nil
}

// Apply shallow-merges the submitted fields into dst. Fields not present
// in the patch keep their previous values.
func (p ProfilePatch) Apply(dst *Profile) {
	if p.FullName != nil {
		dst.FullName = *p.FullName
	}
	if p.Phone != nil {
		dst.Phone = *p.Phone
	}
	if p.EmergencyContact != nil {
		dst.EmergencyContact = *p.EmergencyContact
	}
	if p.Health != nil {
		dst.Health = *p.Health
	}
}
