package e2e

import (
	"github.com/cucumber/godog"

	"lifeclock/e2e/steps/auth"
	"lifeclock/e2e/steps/common"
	"lifeclock/e2e/steps/persons"
	"lifeclock/e2e/steps/ratelimit"
)

// RegisterSteps registers the step definitions of every package.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc)
	persons.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
