package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Nome         string    `json:"nome"`
	Apelido      *string   `json:"apelido,omitempty"`
	Birthdate    *string   `json:"birthdate,omitempty"` // DD/MM/YYYY
	Idade        *int      `json:"idade,omitempty"`     // legacy field, accounts created before birthdate existed
	Corridas     int       `json:"corridas"`
	Vitorias     int       `json:"vitorias"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	PasswordResetToken     *string    `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	AvatarKey *string `json:"-"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// DisplayName returns the nickname when set, otherwise the full name.
func (u *User) DisplayName() string {
	if u.Apelido != nil && *u.Apelido != "" {
		return *u.Apelido
	}
	if u.Nome != "" {
		return u.Nome
	}
	return "Piloto"
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
