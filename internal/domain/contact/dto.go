// internal/domain/contact/dto.go
package contact

// CreateRequest adds a new emergency contact.
type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Relation string `json:"relation"`
	Phone    string `json:"phone" binding:"required"`
}

// UpdateRequest edits an existing contact. Nil fields are untouched.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Relation *string `json:"relation,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}
