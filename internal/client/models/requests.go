package models

// SignInRequest carries the credentials for POST /auth/signin. Email is
// the account identifier; its format is for the server to judge.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest carries the registration form for POST /auth/signup.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,e164|numeric"`
	Viber    string `json:"viber,omitempty" validate:"omitempty,max=50"`
	Address  string `json:"address,omitempty" validate:"omitempty,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// ProfilePatch is the body of PUT /users/{id}. The server answers with the
// complete, authoritative user record.
type ProfilePatch struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,e164|numeric"`
	Viber   string `json:"viber,omitempty" validate:"omitempty,max=50"`
	Address string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// PatchFrom prefills a ProfilePatch with the user's current values.
func PatchFrom(u *SessionUser) ProfilePatch {
	if u == nil {
		return ProfilePatch{}
	}
	return ProfilePatch{
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Viber:   u.Viber,
		Address: u.Address,
	}
}
