package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

func TestCheckLocation(t *testing.T) {
	url := "http://localhost:3000/form/done"

	require.NoError(t, CheckLocation(url, nil))
	require.NoError(t, CheckLocation(url, &scenario.AssertLocation{Value: url}))
	require.NoError(t, CheckLocation(url, &scenario.AssertLocation{Regexp: "/done$"}))

	var failure *scenario.AssertionFailure
	err := CheckLocation(url, &scenario.AssertLocation{Value: "http://localhost:3000/"})
	require.ErrorAs(t, err, &failure)
	require.Equal(t, scenario.AssertValue, failure.Mode)
	require.Equal(t, url, failure.Actual)

	err = CheckLocation(url, &scenario.AssertLocation{Regexp: "/start"})
	require.ErrorAs(t, err, &failure)
	require.Equal(t, "/start", failure.Expected)

	err = CheckLocation(url, &scenario.AssertLocation{Regexp: "("})
	require.ErrorIs(t, err, &scenario.DomainError{Code: scenario.ErrCodeValidation})
}

func TestAssertLocationHandler(t *testing.T) {
	h := AssertLocation[*page](func(_ context.Context, p *page) (string, error) {
		if p == nil {
			return "", errors.New("page closed")
		}
		return p.url, nil
	})
	action := scenario.Action{Kind: scenario.KindAssertLocation, AssertLocation: &scenario.AssertLocation{Regexp: "/done"}}

	rec, err := h(context.Background(), &page{url: "http://x/done"}, action, ports.HandlerOptions{})
	require.NoError(t, err)
	require.Equal(t, "http://x/done", rec.Value)

	_, err = h(context.Background(), &page{url: "http://x/start"}, action, ports.HandlerOptions{})
	require.ErrorIs(t, err, scenario.ErrAssertionFailure)

	_, err = h(context.Background(), nil, action, ports.HandlerOptions{})
	require.EqualError(t, err, "page closed")
}

func TestWaitHandler(t *testing.T) {
	var slept time.Duration
	h := Wait[*page](func(d time.Duration) { slept = d })
	action := scenario.Action{Kind: scenario.KindWait, Wait: &scenario.Wait{Duration: 250 * time.Millisecond}}

	rec, err := h(context.Background(), &page{}, action, ports.HandlerOptions{})
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, slept)
	require.Equal(t, "250ms", rec.Value)
}
