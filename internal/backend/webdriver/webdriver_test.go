package webdriver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/handler"
	"github.com/alexisbeaulieu97/pprunner/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// fakeDriver implements the subset of selenium.WebDriver the handlers use.
type fakeDriver struct {
	selenium.WebDriver

	url      string
	source   string
	found    map[string]*fakeElement
	script   interface{}
	quitErr  error
	quitted  int
	visited  []string
	scripted []interface{}
}

func (d *fakeDriver) Get(url string) error {
	d.visited = append(d.visited, url)
	d.url = url
	return nil
}

func (d *fakeDriver) CurrentURL() (string, error) { return d.url, nil }

func (d *fakeDriver) PageSource() (string, error) { return d.source, nil }

func (d *fakeDriver) Screenshot() ([]byte, error) { return []byte("png"), nil }

func (d *fakeDriver) Quit() error {
	d.quitted++
	return d.quitErr
}

func (d *fakeDriver) FindElement(by, value string) (selenium.WebElement, error) {
	if by != selenium.ByCSSSelector {
		return nil, errors.New("unexpected strategy")
	}
	elem, ok := d.found[value]
	if !ok {
		return nil, errors.New("no such element")
	}
	return elem, nil
}

func (d *fakeDriver) ExecuteScript(_ string, args []interface{}) (interface{}, error) {
	d.scripted = args
	return d.script, nil
}

type fakeElement struct {
	selenium.WebElement

	keys    string
	clicks  int
	cleared bool
}

func (e *fakeElement) SendKeys(keys string) error {
	e.keys += keys
	return nil
}

func (e *fakeElement) Click() error {
	e.clicks++
	return nil
}

func (e *fakeElement) Clear() error {
	e.cleared = true
	return nil
}

func testEnv() handler.Env {
	env := handler.NewEnv(3)
	env.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	env.Sleep = func(time.Duration) {}
	return env
}

func TestCapabilities(t *testing.T) {
	caps := Capabilities(scenario.BackendIE, scenario.LaunchOptions{IgnoreHTTPSErrors: true})
	require.Equal(t, "internet explorer", caps["browserName"])
	require.Equal(t, true, caps["acceptInsecureCerts"])

	caps = Capabilities(scenario.BackendFirefox, scenario.LaunchOptions{})
	require.Equal(t, "firefox", caps["browserName"])
	require.NotContains(t, caps, "acceptInsecureCerts")
}

func TestAdapterLifecycle(t *testing.T) {
	driver := &fakeDriver{}
	var dialed string
	adapter := NewAdapter(nil).WithDialer(func(_ selenium.Capabilities, url string) (selenium.WebDriver, error) {
		dialed = url
		return driver, nil
	})
	ctx := context.Background()

	wd, err := adapter.Launch(ctx, scenario.BackendIE, scenario.LaunchOptions{})
	require.NoError(t, err)
	require.Equal(t, DefaultURL, dialed)

	page, err := adapter.OpenPage(ctx, scenario.BackendIE, wd)
	require.NoError(t, err)
	require.Same(t, driver, page)

	require.NoError(t, adapter.Close(ctx, wd))
	require.Equal(t, 1, driver.quitted)
	require.NoError(t, adapter.Close(ctx, nil))

	_, err = adapter.OpenPage(ctx, scenario.BackendIE, nil)
	require.Error(t, err)
}

func TestAdapterLaunchFailure(t *testing.T) {
	adapter := NewAdapter(nil).WithDialer(func(selenium.Capabilities, string) (selenium.WebDriver, error) {
		return nil, errors.New("connection refused")
	})
	_, err := adapter.Launch(context.Background(), scenario.BackendIE, scenario.LaunchOptions{RemoteURL: "http://grid:4444/wd/hub"})
	require.ErrorContains(t, err, "http://grid:4444/wd/hub")
	require.ErrorContains(t, err, "connection refused")
}

func TestRegistryCoversBuiltinKinds(t *testing.T) {
	reg := handler.NewRegistry[selenium.WebDriver]()
	require.NoError(t, reg.RegisterAll(Handlers(testEnv())))
	require.NoError(t, reg.Covers(scenario.BuiltinKinds()))
}

func TestInputAndClearHandlers(t *testing.T) {
	field := &fakeElement{}
	driver := &fakeDriver{found: map[string]*fakeElement{"#name": field}}
	hs := Handlers(testEnv())

	action := scenario.Action{Kind: scenario.KindInput, Input: &scenario.Input{
		Selector: "#name",
		Value:    &scenario.InputValue{Source: scenario.ValueLiteral, Text: "Taro"},
	}}
	rec, err := hs[scenario.KindInput](context.Background(), driver, action, ports.HandlerOptions{})
	require.NoError(t, err)
	require.Equal(t, "Taro", rec.Value)
	require.Equal(t, "Taro", field.keys)

	clearAction := scenario.Action{Kind: scenario.KindClear, Clear: &scenario.Clear{Selector: "#name"}}
	_, err = hs[scenario.KindClear](context.Background(), driver, clearAction, ports.HandlerOptions{})
	require.NoError(t, err)
	require.True(t, field.cleared)

	missing := scenario.Action{Kind: scenario.KindClick, Click: &scenario.Click{Selector: "#missing"}}
	_, err = hs[scenario.KindClick](context.Background(), driver, missing, ports.HandlerOptions{})
	require.ErrorContains(t, err, "#missing")
}

func TestRadioHandler(t *testing.T) {
	driver := &fakeDriver{script: true}
	action := scenario.Action{Kind: scenario.KindRadio, Radio: &scenario.Radio{Selector: "input[name=plan]", Value: "b"}}
	rec, err := Handlers(testEnv())[scenario.KindRadio](context.Background(), driver, action, ports.HandlerOptions{})
	require.NoError(t, err)
	require.Equal(t, "b", rec.Value)
	require.Equal(t, []interface{}{"input[name=plan]", "b"}, driver.scripted)

	driver.script = false
	_, err = Handlers(testEnv())[scenario.KindRadio](context.Background(), driver, action, ports.HandlerOptions{})
	require.Error(t, err)
}

func TestSelectFallsBackToSecondOption(t *testing.T) {
	option := &fakeElement{}
	driver := &fakeDriver{
		source: `<select id="pref"><option value="">--</option><option value="tokyo">Tokyo</option></select>`,
		found:  map[string]*fakeElement{"#pref [value='tokyo']": option},
	}
	action := scenario.Action{Kind: scenario.KindSelect, Select: &scenario.Select{Selector: "#pref"}}
	rec, err := Handlers(testEnv())[scenario.KindSelect](context.Background(), driver, action, ports.HandlerOptions{})
	require.NoError(t, err)
	require.Equal(t, "tokyo", rec.Value)
	require.Equal(t, 1, option.clicks)
}

func TestArtifactsAndLocation(t *testing.T) {
	dir := t.TempDir()
	driver := &fakeDriver{url: "http://localhost/done", source: "<html><head><title>Done</title></head></html>"}
	logs := logging.NewBuffer(0)
	env := testEnv()
	env.Logger = logs.Logger()
	hs := Handlers(env)
	opts := ports.HandlerOptions{ImageDir: dir, Backend: scenario.BackendIE}

	rec, err := hs[scenario.KindScreenshot](context.Background(), driver, scenario.NewScreenshot("final"), opts)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "ie-1700000000000-final.png"), rec.Value)

	rec, err = hs[scenario.KindDump](context.Background(), driver, scenario.NewDump("0"), opts)
	require.NoError(t, err)
	data, err := os.ReadFile(rec.Value)
	require.NoError(t, err)
	require.Equal(t, driver.source, string(data))
	entries := logs.Entries()
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Fields, "Done")

	assert := scenario.Action{Kind: scenario.KindAssertLocation, AssertLocation: &scenario.AssertLocation{Value: "http://localhost/done"}}
	_, err = hs[scenario.KindAssertLocation](context.Background(), driver, assert, opts)
	require.NoError(t, err)

	nav := scenario.NewNavigate("http://localhost/start")
	_, err = hs[scenario.KindNavigate](context.Background(), driver, nav, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"http://localhost/start"}, driver.visited)
}
