package models

// MemberProfile holds display metadata for a member (inviter names on the
// pending-invitation list).
type MemberProfile struct {
	MemberID string `json:"memberId" dynamodbav:"memberId"` // PK
	Name     string `json:"name" dynamodbav:"name"`
	EmailID  string `json:"emailId,omitempty" dynamodbav:"emailId,omitempty"`
	PhoneID  string `json:"phoneId,omitempty" dynamodbav:"phoneId,omitempty"`
}

// TableName returns the DynamoDB table name
func (MemberProfile) TableName() string {
	return "MemberProfiles"
}
