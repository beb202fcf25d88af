package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StatusDraft)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	// Configure same status again should return same config
	config2 := builder.Configure(StatusDraft)
	if config != config2 {
		t.Error("Configure() should return same config for same status")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidStatus(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid status")
		}
	}()

	builder.Configure(Status("INVALID"))
}

func TestBuilder_BuildPanicsOnInvalidInitialStatus(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial status")
		}
	}()

	builder.Build(Status("INVALID"))
}

func TestStateConfiguration_PermitPanicsOnInvalidStatus(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target status")
		}
	}()

	builder.Configure(StatusDraft).Permit(TriggerSubmit, Status("INVALID"))
}

func TestStateMachine_Fire_InvalidTransition(t *testing.T) {
	machine := ClaimMachine(StatusDraft)

	err := machine.Fire(context.Background(), TriggerApprove)
	if err == nil {
		t.Fatal("Fire() should fail for invalid transition")
	}

	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}

	if machine.State() != StatusDraft {
		t.Errorf("State should remain %v after failed Fire(), got %v", StatusDraft, machine.State())
	}
}

func TestStateMachine_Fire_NoConfiguration(t *testing.T) {
	machine := NewBuilder().Build(StatusDraft)

	err := machine.Fire(context.Background(), TriggerSubmit)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestStateMachine_Fire_CancelledContext(t *testing.T) {
	machine := ClaimMachine(StatusDraft)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := machine.Fire(ctx, TriggerSubmit); !errors.Is(err, context.Canceled) {
		t.Errorf("Fire() error = %v, want %v", err, context.Canceled)
	}
	if machine.State() != StatusDraft {
		t.Errorf("State = %v, want %v", machine.State(), StatusDraft)
	}
}

func TestStateMachine_Immutability(t *testing.T) {
	machine1 := ClaimMachine(StatusDraft)
	machine2 := ClaimMachine(StatusDraft)

	if err := machine1.Fire(context.Background(), TriggerSubmit); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	if machine2.State() != StatusDraft {
		t.Errorf("machine2 state = %v, want %v (machines should be independent)", machine2.State(), StatusDraft)
	}
	if machine1.State() != StatusSubmitted {
		t.Errorf("machine1 state = %v, want %v", machine1.State(), StatusSubmitted)
	}
}

func TestClaimMachine_PermittedTriggers(t *testing.T) {
	tests := []struct {
		status Status
		want   []Trigger
	}{
		{StatusDraft, []Trigger{TriggerSubmit}},
		{StatusSubmitted, []Trigger{TriggerStartReview}},
		{StatusUnderReview, []Trigger{TriggerApprove, TriggerReject, TriggerReturnForInfo}},
		{StatusReturnedForInfo, []Trigger{TriggerSubmit}},
		{StatusApproved, []Trigger{TriggerSettle}},
		{StatusRejected, []Trigger{}},
		{StatusSettled, []Trigger{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := ClaimMachine(tt.status).PermittedTriggers()
			if len(got) != len(tt.want) {
				t.Fatalf("PermittedTriggers() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("PermittedTriggers()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestClaimMachine_SettlementPath(t *testing.T) {
	machine := ClaimMachine(StatusDraft)

	steps := []struct {
		trigger       Trigger
		expectedState Status
	}{
		{TriggerSubmit, StatusSubmitted},
		{TriggerStartReview, StatusUnderReview},
		{TriggerApprove, StatusApproved},
		{TriggerSettle, StatusSettled},
	}

	for i, step := range steps {
		if err := machine.Fire(context.Background(), step.trigger); err != nil {
			t.Errorf("Step %d: Fire(%v) failed: %v", i, step.trigger, err)
		}
		if machine.State() != step.expectedState {
			t.Errorf("Step %d: State after Fire(%v) = %v, want %v", i, step.trigger, machine.State(), step.expectedState)
		}
	}

	if !machine.State().IsTerminal() {
		t.Error("Final status should be terminal")
	}
	if len(machine.PermittedTriggers()) != 0 {
		t.Errorf("Terminal status should have 0 permitted triggers, got %d", len(machine.PermittedTriggers()))
	}
}

func TestClaimMachine_ReturnForInfoLoop(t *testing.T) {
	machine := ClaimMachine(StatusUnderReview)

	for _, trigger := range []Trigger{TriggerReturnForInfo, TriggerSubmit, TriggerStartReview, TriggerReject} {
		if err := machine.Fire(context.Background(), trigger); err != nil {
			t.Fatalf("Fire(%v) failed: %v", trigger, err)
		}
	}

	if machine.State() != StatusRejected {
		t.Errorf("State = %v, want %v", machine.State(), StatusRejected)
	}
}
