package domain

// User is the authenticated identity as reported by the external identity
// provider. This service only ever reads it; IsAdmin gates the admin surface.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}
