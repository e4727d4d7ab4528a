package models

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusRevoked  = "revoked"
	InvitationStatusExpired  = "expired"
)

// Invitation represents a family invitation in DynamoDB.
// PK: familyId, SK: invitationId.
// GSI "InviteeIdentityIndex": PK identityKey, SK statusKey, so all pending
// invitations for one identity are a single begins_with query.
type Invitation struct {
	FamilyID     string `json:"familyId" dynamodbav:"familyId"`         // PK
	InvitationID string `json:"invitationId" dynamodbav:"invitationId"` // SK
	TargetEmail  string `json:"targetEmail" dynamodbav:"targetEmail"`
	TargetPhone  string `json:"targetPhone,omitempty" dynamodbav:"targetPhone,omitempty"`
	IdentityKey  string `json:"identityKey" dynamodbav:"identityKey"` // normalized target identity (GSI PK)
	StatusKey    string `json:"statusKey" dynamodbav:"statusKey"`     // "<status>#<expiresAt>" (GSI SK)
	OfferedRole  string `json:"offeredRole" dynamodbav:"offeredRole"`
	Status       string `json:"status" dynamodbav:"status"`
	InvitedBy    string `json:"invitedBy" dynamodbav:"invitedBy"`
	CreatedAt    string `json:"createdAt" dynamodbav:"createdAt"` // RFC3339 UTC
	ExpiresAt    string `json:"expiresAt" dynamodbav:"expiresAt"` // RFC3339 UTC

	// Decision bookkeeping, written atomically with the status transition.
	AcceptedBy     string `json:"acceptedBy,omitempty" dynamodbav:"acceptedBy,omitempty"`
	AcceptedAt     string `json:"acceptedAt,omitempty" dynamodbav:"acceptedAt,omitempty"`
	DeclineReason  string `json:"declineReason,omitempty" dynamodbav:"declineReason,omitempty"`
	DecisionSource string `json:"decisionSource,omitempty" dynamodbav:"decisionSource,omitempty"`
	LastDecisionID string `json:"lastDecisionId,omitempty" dynamodbav:"lastDecisionId,omitempty"`
	ConsumedAt     string `json:"consumedAt,omitempty" dynamodbav:"consumedAt,omitempty"`
	ExpireAt       int64  `json:"expireAt,omitempty" dynamodbav:"expireAt,omitempty"` // DynamoDB TTL marker, epoch seconds
}

// StatusKeyFor builds the GSI sort key for a status/expiry pair.
func StatusKeyFor(status, expiresAt string) string {
	return status + "#" + expiresAt
}

// TableName returns the DynamoDB table name
func (Invitation) TableName() string {
	return "Invitations"
}
