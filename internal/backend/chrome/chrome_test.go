package chrome

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/handler"
)

func TestSplitFlag(t *testing.T) {
	name, value := splitFlag("--window-size=1280,800")
	require.Equal(t, "window-size", name)
	require.Equal(t, "1280,800", value)

	name, value = splitFlag("--no-sandbox")
	require.Equal(t, "no-sandbox", name)
	require.Equal(t, true, value)

	name, _ = splitFlag("  --  ")
	require.Empty(t, name)
}

func TestAllocatorOptions(t *testing.T) {
	base := len(allocatorOptions(scenario.LaunchOptions{Headless: true}))
	withExtras := allocatorOptions(scenario.LaunchOptions{
		Headless:          false,
		IgnoreHTTPSErrors: true,
		Args:              []string{"--no-sandbox", "", "--lang=ja"},
	})
	require.Len(t, withExtras, base+3)
}

func TestRegistryCoversBuiltinKinds(t *testing.T) {
	reg := handler.NewRegistry[*Page]()
	require.NoError(t, reg.RegisterAll(Handlers(handler.NewEnv(1))))
	require.NoError(t, reg.Covers(scenario.BuiltinKinds()))
	require.Empty(t, reg.Extensions())
}

func TestCloseNilBrowser(t *testing.T) {
	require.NoError(t, NewAdapter(nil).Close(context.Background(), nil))
}
