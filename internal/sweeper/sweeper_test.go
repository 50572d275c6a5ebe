package sweeper

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type fakeEngine struct {
	stale     []string
	abandoned []string
	failOn    string
}

func (f *fakeEngine) StaleSessions(_ time.Duration) []string {
	return f.stale
}

func (f *fakeEngine) MarkAbandoned(_ context.Context, id string) error {
	if id == f.failOn {
		return fmt.Errorf("boom")
	}
	f.abandoned = append(f.abandoned, id)
	return nil
}

func TestRunOnce_AbandonsStaleSessions(t *testing.T) {
	engine := &fakeEngine{stale: []string{"s1", "s2"}}
	s := New(engine, 30*time.Minute, nil)

	if got := s.RunOnce(context.Background()); got != 2 {
		t.Errorf("RunOnce = %d, want 2", got)
	}
	if len(engine.abandoned) != 2 {
		t.Errorf("abandoned %v, want s1 and s2", engine.abandoned)
	}
}

func TestRunOnce_ContinuesPastErrors(t *testing.T) {
	engine := &fakeEngine{stale: []string{"s1", "s2", "s3"}, failOn: "s2"}
	s := New(engine, 30*time.Minute, nil)

	if got := s.RunOnce(context.Background()); got != 2 {
		t.Errorf("RunOnce = %d, want 2", got)
	}
}

func TestRunOnce_NothingStale(t *testing.T) {
	engine := &fakeEngine{}
	s := New(engine, 30*time.Minute, nil)
	if got := s.RunOnce(context.Background()); got != 0 {
		t.Errorf("RunOnce = %d, want 0", got)
	}
}
