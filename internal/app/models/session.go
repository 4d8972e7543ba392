package models

// Session is the authenticated caller resolved by the auth middlewares.
type Session struct {
	UserID string
	Roles  []string
}
