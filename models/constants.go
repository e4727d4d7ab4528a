package models

// Family roles offered on invitations
const (
	RoleAdmin     = "admin"
	RoleMember    = "member"
	RoleSuggester = "suggester"
)

// Decision sources
const (
	DecisionSourceWeb    = "web"
	DecisionSourceMobile = "mobile"
	DecisionSourceEmail  = "email"
)

// GSI names
const (
	InviteeIdentityIndex = "InviteeIdentityIndex"
	MemberIndex          = "MemberIndex"
)
