package scenario

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func testInfo() Info {
	return Info{
		ScenarioName: "signup",
		Options: RunOptions{
			Backend:  BackendChrome,
			ImageDir: "shots",
			Launch:   LaunchOptions{Headless: true},
		},
	}
}

func TestExecutionContext_StartsInPrecondition(t *testing.T) {
	ctx := NewExecutionContext(testInfo())
	if ctx.CurrentIteration() != 0 {
		t.Fatalf("expected iteration 0, got %d", ctx.CurrentIteration())
	}
	if len(ctx.PreconditionSteps()) != 0 || ctx.IterationCount() != 0 {
		t.Fatal("expected empty logs")
	}
	if ctx.Info().ScenarioName != "signup" {
		t.Fatalf("unexpected info: %+v", ctx.Info())
	}
}

func TestExecutionContext_AppendRoutesToCurrentPhase(t *testing.T) {
	ctx := NewExecutionContext(testInfo()).
		Append(ResultRecord{Selector: "#agree"}).
		BeginIteration().
		Append(ResultRecord{Selector: "#a"}).
		BeginIteration().
		Append(ResultRecord{Selector: "#b"}).
		Append(ResultRecord{Selector: "#c"})

	if ctx.CurrentIteration() != 2 {
		t.Fatalf("expected iteration 2, got %d", ctx.CurrentIteration())
	}
	if got := ctx.PreconditionSteps(); len(got) != 1 || got[0].Selector != "#agree" {
		t.Fatalf("unexpected precondition log: %+v", got)
	}
	if got := ctx.IterationSteps(0); len(got) != 1 || got[0].Selector != "#a" {
		t.Fatalf("unexpected first iteration log: %+v", got)
	}
	got := ctx.IterationSteps(1)
	if len(got) != 2 || got[0].Selector != "#b" || got[1].Selector != "#c" {
		t.Fatalf("unexpected second iteration log: %+v", got)
	}
	if ctx.IterationSteps(5) != nil {
		t.Fatal("expected nil for out of range iteration")
	}
}

func TestExecutionContext_SnapshotsAreIndependent(t *testing.T) {
	base := NewExecutionContext(testInfo()).BeginIteration().Append(ResultRecord{Value: "1"})

	left := base.Append(ResultRecord{Value: "left"})
	right := base.Append(ResultRecord{Value: "right"})

	if n := len(base.IterationSteps(0)); n != 1 {
		t.Fatalf("base log mutated, has %d entries", n)
	}
	if left.IterationSteps(0)[1].Value != "left" || right.IterationSteps(0)[1].Value != "right" {
		t.Fatal("sibling snapshots share a log")
	}

	next := base.BeginIteration()
	if base.IterationCount() != 1 || next.IterationCount() != 2 {
		t.Fatalf("BeginIteration mutated its receiver: %d/%d", base.IterationCount(), next.IterationCount())
	}
	if len(next.IterationSteps(1)) != 0 {
		t.Fatal("new iteration log should be empty")
	}
}

func TestExecutionContext_AccessorsReturnCopies(t *testing.T) {
	meta := &Meta{Name: "original"}
	ctx := NewExecutionContext(testInfo()).Append(ResultRecord{Meta: meta})
	meta.Name = "changed"

	steps := ctx.PreconditionSteps()
	if steps[0].Meta.Name != "original" {
		t.Fatal("appended record aliases caller meta")
	}
	steps[0].Meta.Name = "edited"
	steps[0].Value = "edited"
	again := ctx.PreconditionSteps()
	if again[0].Meta.Name != "original" || again[0].Value != "" {
		t.Fatal("accessor exposed internal log")
	}
}

func TestExecutionContext_Snapshot(t *testing.T) {
	ctx := NewExecutionContext(testInfo()).
		Append(ResultRecord{Selector: "#agree", Value: "on"}).
		BeginIteration().
		Append(NewResult(Action{Kind: KindInput, Meta: Meta{Name: "name"}}, "#name", "Ann")).
		Append(ResultRecord{Value: "/done"})

	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "execution_context", append(data, '\n'))
}
