package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// AuthResponse is returned by login and register: the identity plus the
// bearer credential to persist.
type AuthResponse struct {
	User   User   `json:"user"`
	APIKey string `json:"apiKey"`
}

type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
