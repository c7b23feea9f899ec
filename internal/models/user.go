package models

// User represents a login account.
//
// There is a single flat permission level: any authenticated user has full
// access. The first startup seeds a default admin account if the users table
// is empty.
type User struct {
	// ID is the database-assigned identifier.
	ID int64 `json:"id"`

	// Username is unique and immutable after creation.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the account password. Never
	// serialized to clients.
	PasswordHash string `json:"-"`
}
