package internal

import (
	"context"
	"errors"
	"testing"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgressWithSteps_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := ShowProgressWithSteps(ctx, []ProgressStep{
		{Message: "never runs", Fn: func() error { ran = true; return nil }},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ShowProgressWithSteps() error = %v, want context.Canceled", err)
	}
	if ran {
		t.Error("step should not run after cancellation")
	}
}

func TestShowProgressWithSteps_StopsAtFirstError(t *testing.T) {
	var order []string
	stepErr := errors.New("boom")
	err := ShowProgressWithSteps(context.Background(), []ProgressStep{
		{Message: "first", Fn: func() error { order = append(order, "first"); return nil }},
		{Message: "second", Fn: func() error { order = append(order, "second"); return stepErr }},
		{Message: "third", Fn: func() error { order = append(order, "third"); return nil }},
	})
	if !errors.Is(err, stepErr) {
		t.Errorf("ShowProgressWithSteps() error = %v, want %v", err, stepErr)
	}
	if len(order) != 2 || order[1] != "second" {
		t.Errorf("steps run = %v, want [first second]", order)
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		steps   []ProgressStep
		wantErr bool
	}{
		{
			name: "successful steps",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return nil }},
			},
			wantErr: false,
		},
		{
			name: "step with error",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return errors.New("step error") }},
			},
			wantErr: true,
		},
		{
			name:    "empty steps",
			steps:   []ProgressStep{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgressWithSteps(ctx, tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgressWithSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
