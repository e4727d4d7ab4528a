package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"famhub_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DefaultInviteGracePeriod is how long a consumed invitation stays in storage
// before the TTL sweeper may remove it.
const DefaultInviteGracePeriod = 7 * 24 * time.Hour

// DecisionResult is the outcome of an accept/decline decision.
type DecisionResult struct {
	Action       string `json:"action"`
	MembershipID string `json:"membershipId,omitempty"`
	AuditID      string `json:"auditId"`
	FamilyID     string `json:"-"` // set on accept, drives the redirect hint
}

// DecisionService executes accept/decline/decline-all as atomic, conditionally
// guarded store transactions. All concurrency control is the store's
// compare-and-swap on the invitation status; conflicts are surfaced
// immediately, never retried here.
type DecisionService struct {
	Dynamo      *DynamoService
	Invites     *PendingInviteService
	Memberships *MembershipService
	Tokens      *DecisionTokenService
	GracePeriod time.Duration    // zero means DefaultInviteGracePeriod
	Now         func() time.Time // nil means time.Now
}

func (dc *DecisionService) now() time.Time {
	if dc.Now != nil {
		return dc.Now()
	}
	return time.Now()
}

func (dc *DecisionService) gracePeriod() time.Duration {
	if dc.GracePeriod > 0 {
		return dc.GracePeriod
	}
	return DefaultInviteGracePeriod
}

// findCandidate re-resolves the caller's fresh candidate list and locates
// inviteID in it. Client-cached lists are never trusted.
func (dc *DecisionService) findCandidate(ctx context.Context, caller CallerIdentity, inviteID string) (*models.Invitation, *models.ExistingMembershipSummary, error) {
	invites, existing, err := dc.Invites.resolveCandidates(ctx, caller)
	if err != nil {
		return nil, nil, err
	}
	for i := range invites {
		if invites[i].InvitationID == inviteID {
			return &invites[i], existing, nil
		}
	}
	return nil, nil, ErrInviteNotFound
}

// Accept consumes one invitation and creates the membership, atomically.
// Exactly one of two concurrent Accept calls for the same invitation commits;
// the loser gets ErrConcurrentConsumption.
func (dc *DecisionService) Accept(ctx context.Context, caller CallerIdentity, inviteID, token string, switchConfirmed bool, source, correlationID string) (*DecisionResult, error) {
	if !dc.Tokens.Verify(token, caller.MemberID) {
		return nil, ErrInvalidToken
	}

	invite, existing, err := dc.findCandidate(ctx, caller, inviteID)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.FamilyID != invite.FamilyID && !switchConfirmed {
		return nil, ErrSwitchConfirmationRequired
	}

	alreadyMember, err := dc.Memberships.HasMembership(ctx, invite.FamilyID, caller.MemberID)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, ErrAlreadyMember
	}

	decisionID := uuid.NewString()
	now := dc.now().UTC().Format(time.RFC3339)

	membership := models.Membership{
		FamilyID:           invite.FamilyID,
		MemberID:           caller.MemberID,
		Role:               invite.OfferedRole,
		Status:             models.MembershipStatusActive,
		JoinedAt:           now,
		SourceInvitationID: invite.InvitationID,
	}
	membershipItem, err := attributevalue.MarshalMap(membership)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal membership: %w", err)
	}

	auditItem, err := dc.marshalAuditEntry(invite, caller, models.DecisionActionAccepted, decisionID, source, "", correlationID, now)
	if err != nil {
		return nil, err
	}

	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(models.Invitation{}.TableName()),
				Key:                 invitationKey(invite),
				ConditionExpression: aws.String("#status = :pending"),
				UpdateExpression: aws.String("SET #status = :accepted, statusKey = :statusKey, acceptedBy = :memberId, " +
					"acceptedAt = :now, consumedAt = :now, decisionSource = :source, lastDecisionId = :decisionId"),
				ExpressionAttributeNames: map[string]string{"#status": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pending":    &types.AttributeValueMemberS{Value: models.InvitationStatusPending},
					":accepted":   &types.AttributeValueMemberS{Value: models.InvitationStatusAccepted},
					":statusKey":  &types.AttributeValueMemberS{Value: models.StatusKeyFor(models.InvitationStatusAccepted, invite.ExpiresAt)},
					":memberId":   &types.AttributeValueMemberS{Value: caller.MemberID},
					":now":        &types.AttributeValueMemberS{Value: now},
					":source":     &types.AttributeValueMemberS{Value: source},
					":decisionId": &types.AttributeValueMemberS{Value: decisionID},
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.Membership{}.TableName()),
				Item:                membershipItem,
				ConditionExpression: ConditionCheckNotExists("familyId"),
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.DecisionLogEntry{}.TableName()),
				Item:                auditItem,
				ConditionExpression: ConditionCheckNotExists("decisionId"),
			},
		},
	}

	if err := dc.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, ErrConcurrentConsumption
		}
		return nil, err
	}

	return &DecisionResult{
		Action:       models.DecisionActionAccepted,
		MembershipID: caller.MemberID,
		AuditID:      decisionID,
		FamilyID:     invite.FamilyID,
	}, nil
}

// Decline consumes one invitation without creating a membership. The record
// gets a storage TTL marker so consumed invitations age out after the grace
// period.
func (dc *DecisionService) Decline(ctx context.Context, caller CallerIdentity, inviteID, token, reason, source, correlationID string) (*DecisionResult, error) {
	if !dc.Tokens.Verify(token, caller.MemberID) {
		return nil, ErrInvalidToken
	}

	invite, _, err := dc.findCandidate(ctx, caller, inviteID)
	if err != nil {
		return nil, err
	}

	return dc.declineOne(ctx, invite, caller, reason, source, correlationID)
}

// DeclineAll declines every fresh candidate, one independent transaction per
// invitation. The batch is deliberately best-effort: a failure on one
// invitation neither rolls back nor blocks the others. An empty candidate
// list is a no-op success with audit id "none".
func (dc *DecisionService) DeclineAll(ctx context.Context, caller CallerIdentity, token, reason, source, correlationID string) (*DecisionResult, error) {
	if !dc.Tokens.Verify(token, caller.MemberID) {
		return nil, ErrInvalidToken
	}

	invites, _, err := dc.Invites.resolveCandidates(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(invites) == 0 {
		return &DecisionResult{Action: models.DecisionActionDeclined, AuditID: "none"}, nil
	}

	lastAuditID := ""
	var lastErr error
	for i := range invites {
		result, err := dc.declineOne(ctx, &invites[i], caller, reason, source, correlationID)
		if err != nil {
			log.Printf("decline-all: invitation %s skipped: %v", invites[i].InvitationID, err)
			lastErr = err
			continue
		}
		lastAuditID = result.AuditID
	}

	if lastAuditID == "" {
		return nil, lastErr
	}
	return &DecisionResult{Action: models.DecisionActionDeclined, AuditID: lastAuditID}, nil
}

func (dc *DecisionService) declineOne(ctx context.Context, invite *models.Invitation, caller CallerIdentity, reason, source, correlationID string) (*DecisionResult, error) {
	decisionID := uuid.NewString()
	now := dc.now().UTC()
	nowStr := now.Format(time.RFC3339)
	expireAt := now.Add(dc.gracePeriod()).Unix()

	auditItem, err := dc.marshalAuditEntry(invite, caller, models.DecisionActionDeclined, decisionID, source, reason, correlationID, nowStr)
	if err != nil {
		return nil, err
	}

	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(models.Invitation{}.TableName()),
				Key:                 invitationKey(invite),
				ConditionExpression: aws.String("#status = :pending OR #status = :expired"),
				UpdateExpression: aws.String("SET #status = :declined, statusKey = :statusKey, declineReason = :reason, " +
					"consumedAt = :now, decisionSource = :source, lastDecisionId = :decisionId, expireAt = :expireAt"),
				ExpressionAttributeNames: map[string]string{"#status": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pending":    &types.AttributeValueMemberS{Value: models.InvitationStatusPending},
					":expired":    &types.AttributeValueMemberS{Value: models.InvitationStatusExpired},
					":declined":   &types.AttributeValueMemberS{Value: models.InvitationStatusDeclined},
					":statusKey":  &types.AttributeValueMemberS{Value: models.StatusKeyFor(models.InvitationStatusDeclined, invite.ExpiresAt)},
					":reason":     &types.AttributeValueMemberS{Value: reason},
					":now":        &types.AttributeValueMemberS{Value: nowStr},
					":source":     &types.AttributeValueMemberS{Value: source},
					":decisionId": &types.AttributeValueMemberS{Value: decisionID},
					":expireAt":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expireAt)},
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.DecisionLogEntry{}.TableName()),
				Item:                auditItem,
				ConditionExpression: ConditionCheckNotExists("decisionId"),
			},
		},
	}

	if err := dc.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, ErrConcurrentConsumption
		}
		return nil, err
	}

	return &DecisionResult{Action: models.DecisionActionDeclined, AuditID: decisionID}, nil
}

func (dc *DecisionService) marshalAuditEntry(invite *models.Invitation, caller CallerIdentity, action, decisionID, source, message, correlationID, createdAt string) (map[string]types.AttributeValue, error) {
	entry := models.DecisionLogEntry{
		DecisionID:    decisionID,
		InvitationID:  invite.InvitationID,
		FamilyID:      invite.FamilyID,
		Actor:         caller.MemberID,
		Action:        action,
		Source:        source,
		Message:       message,
		CorrelationID: correlationID,
		CreatedAt:     createdAt,
	}
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal decision log entry: %w", err)
	}
	return item, nil
}

func invitationKey(invite *models.Invitation) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"familyId":     &types.AttributeValueMemberS{Value: invite.FamilyID},
		"invitationId": &types.AttributeValueMemberS{Value: invite.InvitationID},
	}
}
