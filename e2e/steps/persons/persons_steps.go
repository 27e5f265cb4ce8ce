package persons

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &personsSteps{tc: tc}

	ctx.Step(`^I add a person "([^"]*)" born "([^"]*)" as (male|female)$`, steps.addPerson)
	ctx.Step(`^I add (\d+) persons$`, steps.addPersons)
	ctx.Step(`^I should have (\d+) persons?$`, steps.shouldHavePersons)
	ctx.Step(`^"([^"]*)" should have time remaining$`, steps.shouldHaveTimeRemaining)
}

type personsSteps struct {
	tc TestContext
}

type formattedPerson struct {
	Name          string `json:"name"`
	IsAccountUser bool   `json:"isAccountUser"`
	RemainTime    int64  `json:"remainTime"`
}

func (s *personsSteps) addPerson(ctx context.Context, name, birthDate, sex string) error {
	return s.tc.POST("/api/persons/create", map[string]string{
		"personName": name,
		"birthDate":  birthDate,
		"sex":        sex,
	})
}

// addPersons stops at the first rejected request so the status can be asserted.
func (s *personsSteps) addPersons(ctx context.Context, n int) error {
	for i := range n {
		if err := s.addPerson(ctx, fmt.Sprintf("Person %d", i+1), "2000-01-01", "female"); err != nil {
			return err
		}
		if s.tc.GetLastResponseStatus() != 200 {
			return nil
		}
	}
	return nil
}

func (s *personsSteps) list() ([]formattedPerson, error) {
	if err := s.tc.GET("/api/persons/findAll"); err != nil {
		return nil, err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return nil, fmt.Errorf("findAll returned %d: %s", status, s.tc.GetLastResponseBody())
	}
	var body struct {
		FormattedPersons []formattedPerson `json:"formattedPersons"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return nil, fmt.Errorf("decode persons: %w", err)
	}
	return body.FormattedPersons, nil
}

func (s *personsSteps) shouldHavePersons(ctx context.Context, want int) error {
	persons, err := s.list()
	if err != nil {
		return err
	}
	if len(persons) != want {
		return fmt.Errorf("expected %d persons, got %d", want, len(persons))
	}
	return nil
}

func (s *personsSteps) shouldHaveTimeRemaining(ctx context.Context, name string) error {
	persons, err := s.list()
	if err != nil {
		return err
	}
	for _, p := range persons {
		if p.Name == name {
			if p.RemainTime <= 0 {
				return fmt.Errorf("%s has no time remaining: %d", name, p.RemainTime)
			}
			return nil
		}
	}
	return fmt.Errorf("person %q not listed", name)
}
