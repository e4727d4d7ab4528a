package models

const (
	MembershipStatusActive        = "active"
	MembershipStatusPendingSwitch = "pending_switch"
	MembershipStatusSuspended     = "suspended"
)

// Membership represents a member's seat in a family.
// PK: familyId, SK: memberId. GSI "MemberIndex": PK memberId, so "which
// families does this member belong to" is a single query.
type Membership struct {
	FamilyID           string `json:"familyId" dynamodbav:"familyId"` // PK
	MemberID           string `json:"memberId" dynamodbav:"memberId"` // SK
	Role               string `json:"role" dynamodbav:"role"`
	Status             string `json:"status" dynamodbav:"status"`
	JoinedAt           string `json:"joinedAt" dynamodbav:"joinedAt"` // RFC3339 UTC
	SourceInvitationID string `json:"sourceInvitationId,omitempty" dynamodbav:"sourceInvitationId,omitempty"`
}

// ExistingMembershipSummary is the read-only projection returned to callers
// deciding whether an accept needs a cross-family switch confirmation.
type ExistingMembershipSummary struct {
	FamilyID string `json:"familyId"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// TableName returns the DynamoDB table name
func (Membership) TableName() string {
	return "Memberships"
}
