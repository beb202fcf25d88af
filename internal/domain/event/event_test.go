package event

import (
	"testing"
	"time"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
)

func TestType_IsValid(t *testing.T) {
	for _, typ := range AllTypes() {
		if !typ.IsValid() {
			t.Errorf("Type(%q).IsValid() = false, want true", typ)
		}
	}

	if Type("instance.created").IsValid() {
		t.Error("unknown type should not be valid")
	}
}

func TestTypeForChange(t *testing.T) {
	tests := []struct {
		change entity.ChangeType
		want   Type
	}{
		{entity.ChangeTypeCreated, TypeClaimCreated},
		{entity.ChangeTypeSubmitted, TypeClaimSubmitted},
		{entity.ChangeTypeStatusChange, TypeClaimStatusChanged},
		{entity.ChangeTypeApproval, TypeClaimApproved},
		{entity.ChangeTypeRejection, TypeClaimRejected},
		{entity.ChangeTypeReturnedForInfo, TypeClaimReturnedForInfo},
		{entity.ChangeTypeSettlement, TypeClaimSettled},
		{entity.ChangeTypeAttachmentChange, TypeClaimUpdated},
		{entity.ChangeTypeAmountChange, TypeClaimUpdated},
	}

	for _, tt := range tests {
		t.Run(string(tt.change), func(t *testing.T) {
			if got := TypeForChange(tt.change); got != tt.want {
				t.Errorf("TypeForChange(%s) = %v, want %v", tt.change, got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now()
	evt := NewEvent(TypeClaimApproved, "c-1", map[string]interface{}{"new_status": "APPROVED"})

	if evt.ID == "" || evt.CorrelationID == "" {
		t.Error("NewEvent() should generate ID and correlation ID")
	}
	if evt.ID == evt.CorrelationID {
		t.Error("ID and CorrelationID should differ")
	}
	if evt.Timestamp.Before(before) {
		t.Error("Timestamp should be set to now")
	}
	if got := evt.GetPayloadString("new_status"); got != "APPROVED" {
		t.Errorf("GetPayloadString() = %v, want APPROVED", got)
	}
}

func TestNewEvent_NilPayload(t *testing.T) {
	evt := NewEvent(TypeClaimCreated, "c-1", nil)
	if evt.Payload == nil {
		t.Fatal("payload should be initialised")
	}
	if got := evt.GetPayloadString("missing"); got != "" {
		t.Errorf("GetPayloadString() = %q, want empty", got)
	}
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEventWithCorrelation(TypeClaimSettled, "c-1", map[string]interface{}{"version": 3}, "corr-1")
	updated := original.WithPayload("payment_reference", "PAY-001")

	if _, ok := original.Payload["payment_reference"]; ok {
		t.Error("WithPayload() must not modify the original event")
	}
	if updated.GetPayloadString("payment_reference") != "PAY-001" {
		t.Error("WithPayload() should add the key")
	}
	if updated.ID != original.ID || updated.CorrelationID != "corr-1" {
		t.Error("WithPayload() should keep identity fields")
	}
	if updated.GetPayloadInt("version") != 3 {
		t.Errorf("GetPayloadInt() = %d, want 3", updated.GetPayloadInt("version"))
	}
}
