package handler

import (
	"strings"
	"time"

	"lifeclock/internal/auth/service"
	lifespan "lifeclock/internal/lifespan/models"
	personmodels "lifeclock/internal/person/models"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/email"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birthDate"`
	Sex       string `json:"sex"`
}

func (r *SignupRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
	r.Username = personmodels.NormalizeName(r.Username)
	if r.Username == "" && email.IsValid(r.Email) {
		r.Username = email.DisplayName(r.Email)
	}
	r.Sex = strings.ToLower(strings.TrimSpace(r.Sex))
	r.BirthDate = strings.TrimSpace(r.BirthDate)
}

func (r *SignupRequest) Validate() error {
	if err := validateCredentials(r.Email, r.Password); err != nil {
		return err
	}
	if r.BirthDate == "" || r.Sex == "" {
		return dErrors.New(dErrors.CodeValidation, "birthDate and sex are required")
	}
	return personmodels.ValidateName(r.Username)
}

// Input resolves the dates of the request against today.
func (r *SignupRequest) Input(today time.Time) (service.SignupInput, error) {
	sex, err := lifespan.ParseSex(r.Sex)
	if err != nil {
		return service.SignupInput{}, err
	}
	birth, err := personmodels.ParseBirthDate(r.BirthDate, today)
	if err != nil {
		return service.SignupInput{}, err
	}
	return service.SignupInput{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		Sex:       sex,
		BirthDate: birth,
	}, nil
}

// SigninRequest is the body of POST /auth/createAuthToken.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SigninRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
}

func (r *SigninRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	if len(r.Email) > email.MaxLength || len(r.Password) > maxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "field too long")
	}
	return nil
}

// UpdateUserRequest is the body of POST /users/update.
type UpdateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
}

func (r *UpdateUserRequest) Validate() error {
	return validateCredentials(r.Email, r.Password)
}

func validateCredentials(address, password string) error {
	if address == "" || password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	if !email.IsValid(address) {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be 8 to 72 bytes")
	}
	return nil
}
