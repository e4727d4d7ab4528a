package models

const (
	DecisionActionAccepted = "ACCEPTED"
	DecisionActionDeclined = "DECLINED"
)

// DecisionLogEntry is the append-only audit record written inside the same
// transaction as the invitation transition. Immutable once written.
type DecisionLogEntry struct {
	DecisionID    string `json:"decisionId" dynamodbav:"decisionId"` // PK, fresh UUID per decision
	InvitationID  string `json:"invitationId" dynamodbav:"invitationId"`
	FamilyID      string `json:"familyId" dynamodbav:"familyId"`
	Actor         string `json:"actor" dynamodbav:"actor"`
	Action        string `json:"action" dynamodbav:"action"` // "ACCEPTED" or "DECLINED"
	Source        string `json:"source" dynamodbav:"source"`
	Message       string `json:"message,omitempty" dynamodbav:"message,omitempty"`
	CorrelationID string `json:"correlationId,omitempty" dynamodbav:"correlationId,omitempty"`
	CreatedAt     string `json:"createdAt" dynamodbav:"createdAt"` // RFC3339 UTC
}

// TableName returns the DynamoDB table name
func (DecisionLogEntry) TableName() string {
	return "DecisionLog"
}
