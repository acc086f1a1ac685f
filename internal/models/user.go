package models

// User is an account allowed to drive the counter API.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Actor is the signed-in user behind a counter request, as carried by the token.
type Actor struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}
