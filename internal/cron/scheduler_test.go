package cron

import (
	"context"
	"strings"
	"testing"
	"time"
)

type fakeJob struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	if j.run != nil {
		return j.run(ctx)
	}
	return nil
}

func TestRegisterDuplicate(t *testing.T) {
	s := NewScheduler(nil)
	if err := s.RegisterJob(&fakeJob{name: "sweep", schedule: "* * * * *"}); err != nil {
		t.Fatalf("RegisterJob() error = %v", err)
	}
	err := s.RegisterJob(&fakeJob{name: "sweep", schedule: "* * * * *"})
	if err == nil {
		t.Fatal("duplicate RegisterJob() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "sweep") {
		t.Errorf("error = %v, want it to name the job", err)
	}
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(nil)
	s.RegisterJob(&fakeJob{name: "bad", schedule: "not a schedule"})
	if err := s.Start(); err == nil {
		t.Fatal("Start() succeeded, want invalid schedule error")
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(nil)
	s.RegisterJob(&fakeJob{name: "sweep", schedule: "* * * * *"})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestStopCancelsJobContext(t *testing.T) {
	s := NewScheduler(nil)
	ctxCh := make(chan context.Context, 1)
	s.RegisterJob(&fakeJob{
		name:     "probe",
		schedule: "* * * * *",
		run: func(ctx context.Context) error {
			ctxCh <- ctx
			return nil
		},
	})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	select {
	case jobCtx := <-ctxCh:
		if jobCtx.Err() == nil {
			t.Error("job context still live after Stop")
		}
	default:
		// The schedule never fired within the test window; nothing to
		// check.
	}
}
