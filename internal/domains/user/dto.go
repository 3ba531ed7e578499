package user

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return ErrEmailPasswordRequired
	}
	return nil
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

func (r RegisterRequest) Validate() error {
	if r.Email == "" || r.Password == "" || r.FirstName == "" || r.LastName == "" {
		return ErrAllFieldsRequired
	}
	if len(r.Password) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// LoginResponse carries the sanitized user and the session token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// TokenUser is the view returned by token validation. Name is computed
// for display so clients do not concatenate it themselves.
type TokenUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
}

type ValidateTokenResponse struct {
	Valid bool       `json:"valid"`
	User  *TokenUser `json:"user"`
}
