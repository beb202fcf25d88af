package event

import "github.com/garyjia/tpa-claims/internal/domain/entity"

// Type identifies the type of domain event
type Type string

const (
	TypeClaimCreated         Type = "claim.created"
	TypeClaimUpdated         Type = "claim.updated"
	TypeClaimSubmitted       Type = "claim.submitted"
	TypeClaimStatusChanged   Type = "claim.status_changed"
	TypeClaimApproved        Type = "claim.approved"
	TypeClaimRejected        Type = "claim.rejected"
	TypeClaimReturnedForInfo Type = "claim.returned_for_info"
	TypeClaimSettled         Type = "claim.settled"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeClaimCreated,
		TypeClaimUpdated,
		TypeClaimSubmitted,
		TypeClaimStatusChanged,
		TypeClaimApproved,
		TypeClaimRejected,
		TypeClaimReturnedForInfo,
		TypeClaimSettled:
		return true
	default:
		return false
	}
}

// TypeForChange maps an audit change type onto the event emitted after commit
func TypeForChange(changeType entity.ChangeType) Type {
	switch changeType {
	case entity.ChangeTypeCreated:
		return TypeClaimCreated
	case entity.ChangeTypeSubmitted:
		return TypeClaimSubmitted
	case entity.ChangeTypeStatusChange:
		return TypeClaimStatusChanged
	case entity.ChangeTypeApproval:
		return TypeClaimApproved
	case entity.ChangeTypeRejection:
		return TypeClaimRejected
	case entity.ChangeTypeReturnedForInfo:
		return TypeClaimReturnedForInfo
	case entity.ChangeTypeSettlement:
		return TypeClaimSettled
	default:
		return TypeClaimUpdated
	}
}

// AllTypes returns every event type
func AllTypes() []Type {
	return []Type{
		TypeClaimCreated,
		TypeClaimUpdated,
		TypeClaimSubmitted,
		TypeClaimStatusChanged,
		TypeClaimApproved,
		TypeClaimRejected,
		TypeClaimReturnedForInfo,
		TypeClaimSettled,
	}
}
