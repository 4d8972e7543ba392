package models

type IdentityUser struct {
	ID    string
	Email string
}
