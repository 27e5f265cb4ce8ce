package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context these steps need.
type TestContext interface {
	GET(path string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the lifeclock server is healthy$`, steps.serverIsHealthy)
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be positive$`, steps.fieldShouldBePositive)
	ctx.Step(`^the response field "([^"]*)" should be (-?\d+)$`, steps.fieldShouldBeNumber)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serverIsHealthy(ctx context.Context) error {
	if err := s.tc.GET("/health"); err != nil {
		return err
	}
	return s.statusShouldBe(ctx, 200)
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.GetLastResponseStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("expected %s=%q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBePositive(ctx context.Context, field string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	n, ok := v.(float64)
	if !ok || n <= 0 {
		return fmt.Errorf("expected %s to be a positive number, got %v", field, v)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeNumber(ctx context.Context, field string, want int) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if n, ok := v.(float64); !ok || int(n) != want {
		return fmt.Errorf("expected %s=%d, got %v", field, want, v)
	}
	return nil
}
