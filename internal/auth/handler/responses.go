package handler

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birthDate"`
}

type FindUserResponse struct {
	User ProfileResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
