package handler

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// CheckLocation compares url with the expectations of an assertLocation
// action. The exact value is checked before the pattern.
func CheckLocation(url string, expect *scenario.AssertLocation) error {
	if expect == nil {
		return nil
	}
	if expect.Value != "" && url != expect.Value {
		return &scenario.AssertionFailure{Mode: scenario.AssertValue, Expected: expect.Value, Actual: url}
	}
	if expect.Regexp != "" {
		re, err := regexp.Compile(expect.Regexp)
		if err != nil {
			return &scenario.DomainError{
				Code:    scenario.ErrCodeValidation,
				Message: fmt.Sprintf("invalid location regexp %q", expect.Regexp),
				Cause:   err,
			}
		}
		if !re.MatchString(url) {
			return &scenario.AssertionFailure{Mode: scenario.AssertRegexp, Expected: expect.Regexp, Actual: url}
		}
	}
	return nil
}

// LocationFunc reads the current URL of a page.
type LocationFunc[P any] func(ctx context.Context, page P) (string, error)

// AssertLocation builds an assertLocation handler from a URL reader.
func AssertLocation[P any](current LocationFunc[P]) ports.Handler[P] {
	return func(ctx context.Context, page P, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
		url, err := current(ctx, page)
		if err != nil {
			return scenario.ResultRecord{}, err
		}
		if err := CheckLocation(url, action.AssertLocation); err != nil {
			return scenario.ResultRecord{}, err
		}
		return scenario.NewResult(action, "", url), nil
	}
}

// Wait builds a wait handler. The sleep is not cut short by ctx.
func Wait[P any](sleep func(time.Duration)) ports.Handler[P] {
	if sleep == nil {
		sleep = time.Sleep
	}
	return func(_ context.Context, _ P, action scenario.Action, _ ports.HandlerOptions) (scenario.ResultRecord, error) {
		var d time.Duration
		if action.Wait != nil {
			d = action.Wait.Duration
		}
		sleep(d)
		return scenario.NewResult(action, "", d.String()), nil
	}
}
