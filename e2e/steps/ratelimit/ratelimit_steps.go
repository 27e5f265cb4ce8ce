package ratelimit

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

type TestContext interface {
	POST(path string, body any) error
	Email(local string) string
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetStatuses() []int
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I fail to sign in as "([^"]*)" (\d+) times$`, steps.failSignIn)
	ctx.Step(`^every rejected attempt should look the same$`, steps.rejectionsLookTheSame)
	ctx.Step(`^the last attempt should be rate limited$`, steps.lastAttemptRateLimited)
}

type ratelimitSteps struct {
	tc       TestContext
	messages []string
}

func (s *ratelimitSteps) failSignIn(ctx context.Context, name string, n int) error {
	for range n {
		if err := s.tc.POST("/api/auth/createAuthToken", map[string]string{
			"email":    s.tc.Email(name),
			"password": "definitely wrong",
		}); err != nil {
			return err
		}
		if s.tc.GetLastResponseStatus() == 401 {
			msg, err := s.tc.GetResponseField("message")
			if err != nil {
				return err
			}
			s.messages = append(s.messages, fmt.Sprint(msg))
		}
	}
	return nil
}

func (s *ratelimitSteps) rejectionsLookTheSame(ctx context.Context) error {
	for _, m := range s.messages {
		if m != s.messages[0] {
			return fmt.Errorf("rejection messages differ: %q vs %q", s.messages[0], m)
		}
	}
	return nil
}

func (s *ratelimitSteps) lastAttemptRateLimited(ctx context.Context) error {
	statuses := s.tc.GetStatuses()
	if len(statuses) == 0 || statuses[len(statuses)-1] != 429 {
		return fmt.Errorf("expected the last attempt to get 429, statuses: %v", statuses)
	}
	code, err := s.tc.GetResponseField("error")
	if err != nil {
		return err
	}
	if code != "rate_limit_exceeded" {
		return fmt.Errorf("expected rate_limit_exceeded, got %v", code)
	}
	return nil
}
