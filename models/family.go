package models

// Family holds display metadata for a family, resolved when building the
// caller-facing pending-invitation list.
type Family struct {
	FamilyID  string `json:"familyId" dynamodbav:"familyId"` // PK
	Name      string `json:"name" dynamodbav:"name"`
	OwnerID   string `json:"ownerId,omitempty" dynamodbav:"ownerId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
}

// TableName returns the DynamoDB table name
func (Family) TableName() string {
	return "Families"
}
