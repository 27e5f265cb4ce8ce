package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// DefaultPassword is used by every account the scenarios create.
const DefaultPassword = "correct horse battery"

type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	DELETE(path string) error
	Email(local string) string
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetAccessToken() string
	SetAccessToken(token string)
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I sign up as "([^"]*)" born "([^"]*)" as (male|female)$`, steps.signUp)
	ctx.Step(`^an account "([^"]*)" born "([^"]*)" as (male|female)$`, steps.account)
	ctx.Step(`^I sign in as "([^"]*)"$`, steps.signIn)
	ctx.Step(`^I sign in as "([^"]*)" with password "([^"]*)"$`, steps.signInWithPassword)
	ctx.Step(`^I sign out$`, steps.signOut)
	ctx.Step(`^I delete my account$`, steps.deleteAccount)
	ctx.Step(`^my profile should show sex "([^"]*)" and birth date "([^"]*)"$`, steps.profileShouldShow)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) signUp(ctx context.Context, name, birthDate, sex string) error {
	return s.tc.POST("/api/auth/signup", map[string]string{
		"username":  name,
		"email":     s.tc.Email(name),
		"password":  DefaultPassword,
		"birthDate": birthDate,
		"sex":       sex,
	})
}

// account signs up and signs in, leaving the token on the context.
func (s *authSteps) account(ctx context.Context, name, birthDate, sex string) error {
	if err := s.signUp(ctx, name, birthDate, sex); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("signup returned %d: %s", status, s.tc.GetLastResponseBody())
	}
	if err := s.signIn(ctx, name); err != nil {
		return err
	}
	if s.tc.GetAccessToken() == "" {
		return fmt.Errorf("sign-in returned %d: %s", s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *authSteps) signIn(ctx context.Context, name string) error {
	return s.signInWithPassword(ctx, name, DefaultPassword)
}

func (s *authSteps) signInWithPassword(ctx context.Context, name, password string) error {
	if err := s.tc.POST("/api/auth/createAuthToken", map[string]string{
		"email":    s.tc.Email(name),
		"password": password,
	}); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return nil
	}
	token, err := s.tc.GetResponseField("token")
	if err != nil {
		return err
	}
	s.tc.SetAccessToken(fmt.Sprint(token))
	return nil
}

func (s *authSteps) signOut(ctx context.Context) error {
	return s.tc.POST("/api/auth/signout", nil)
}

func (s *authSteps) deleteAccount(ctx context.Context) error {
	return s.tc.DELETE("/api/users/delete")
}

func (s *authSteps) profileShouldShow(ctx context.Context, sex, birthDate string) error {
	if err := s.tc.GET("/api/users/find"); err != nil {
		return err
	}
	var body struct {
		User struct {
			Sex       string `json:"sex"`
			BirthDate string `json:"birthDate"`
		} `json:"user"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	if body.User.Sex != sex || body.User.BirthDate != birthDate {
		return fmt.Errorf("expected %s/%s, got %s/%s", sex, birthDate, body.User.Sex, body.User.BirthDate)
	}
	return nil
}
