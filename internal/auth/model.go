package auth

// User is the single administrative account. The first (and only) user is
// created through the bootstrap flow; after that, setup is blocked.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
