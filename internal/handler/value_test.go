package handler

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

func TestResolverInputLiteral(t *testing.T) {
	r := NewResolver(1)
	got, err := r.Input(&scenario.Input{Selector: "#name", Value: &scenario.InputValue{Source: scenario.ValueLiteral, Text: "Ann"}})
	require.NoError(t, err)
	require.Equal(t, "Ann", got)
}

func TestResolverInputDate(t *testing.T) {
	r := NewResolver(1)
	got, err := r.Input(&scenario.Input{Selector: "#dob", Value: &scenario.InputValue{Source: scenario.ValueDate, Text: "1990-03-07"}})
	require.NoError(t, err)
	require.Equal(t, "07031990", got)

	got, err = FormatDate("2021-12-25T10:00:00Z")
	require.NoError(t, err)
	require.Equal(t, "25122021", got)

	_, err = FormatDate("yesterday")
	require.ErrorIs(t, err, scenario.ErrUnknownInput)
}

func TestResolverInputFaker(t *testing.T) {
	r := NewResolver(42)
	email, err := r.Input(&scenario.Input{Selector: "#email", Value: &scenario.InputValue{Source: scenario.ValueFaker, Text: "internet.email"}})
	require.NoError(t, err)
	require.Contains(t, email, "@")

	name, err := r.Fake("firstname")
	require.NoError(t, err)
	require.NotEmpty(t, name)

	_, err = r.Fake("no.such.generator")
	require.ErrorIs(t, err, scenario.ErrUnknownInput)
}

func TestResolverInputRegexp(t *testing.T) {
	r := NewResolver(7)
	got, err := r.Input(&scenario.Input{Selector: "#zip", Constrains: &scenario.InputConstrains{Regexp: `[0-9]{3}-[0-9]{4}`}})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^[0-9]{3}-[0-9]{4}$`), got)

	_, err = r.Matching("(")
	require.ErrorIs(t, err, scenario.ErrUnknownInput)
}

func TestResolverInputUnknown(t *testing.T) {
	r := NewResolver(1)
	_, err := r.Input(&scenario.Input{Selector: "#x"})
	require.ErrorIs(t, err, scenario.ErrUnknownInput)

	_, err = r.Input(nil)
	require.ErrorIs(t, err, scenario.ErrUnknownInput)
}

func TestResolverPickIsSeeded(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e"}
	first, second := NewResolver(99), NewResolver(99)
	for i := 0; i < 20; i++ {
		a, ok := first.Pick(values)
		require.True(t, ok)
		b, _ := second.Pick(values)
		require.Equal(t, a, b)
		require.Contains(t, values, a)
	}

	_, ok := first.Pick(nil)
	require.False(t, ok)
}
