package authapi

import (
	"time"

	"raggate/cmd/identity"
)

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type createAdminRequest struct {
	AdminID     string `json:"adminId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Designation string `json:"designation"`
}

type loginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	KeepMeSignedIn bool   `json:"keepMeSignedIn"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// userObj is the sanitized account view returned on signup and login.
// Password hashes and admin identifiers never appear on the wire.
type userObj struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Designation *string   `json:"designation,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserObj(u identity.User) userObj {
	return userObj{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        u.Role,
		Designation: u.Designation,
		CreatedAt:   u.CreatedAt,
	}
}

type signupResponse struct {
	Message string  `json:"message"`
	User    userObj `json:"userObj"`
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	Data   userObj   `json:"data"`
	Tokens tokenPair `json:"tokens"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}
