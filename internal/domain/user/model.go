package user

import "github.com/medbook/medbook/internal/platform/docstore"

type RegisterRequest struct {
	INN      string `json:"inn"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	INN      string `json:"inn"`
	Password string `json:"password"`
}

// Patch changes a user's profile. Empty fields are ignored. NewPassword is
// the documented field; Password is accepted from older clients.
type Patch struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	NewPassword string `json:"newPassword"`
	Password    string `json:"password"`
}

func (p Patch) password() string {
	if p.NewPassword != "" {
		return p.NewPassword
	}
	return p.Password
}

func (p Patch) apply(u *docstore.User) {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Phone != "" {
		u.Phone = p.Phone
	}
	if pw := p.password(); pw != "" {
		u.Password = pw
	}
}

// AuthResponse wraps the public user view for register, login and patch.
type AuthResponse struct {
	Success bool                 `json:"success"`
	User    *docstore.PublicUser `json:"user"`
}
