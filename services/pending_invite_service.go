package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"famhub_server/models"
	"famhub_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CallerIdentity is the trusted, already-verified identity supplied by the
// upstream auth layer.
type CallerIdentity struct {
	MemberID string
	Email    string
	Phone    string
}

// PendingInviteSummary is one caller-facing candidate invitation.
type PendingInviteSummary struct {
	InviteID                   string `json:"inviteId"`
	FamilyID                   string `json:"familyId"`
	FamilyName                 string `json:"familyName"`
	InviterName                string `json:"inviterName"`
	RoleOffered                string `json:"roleOffered"`
	ExpiresAt                  string `json:"expiresAt"`
	Status                     string `json:"status"`
	RequiresSwitchConfirmation bool   `json:"requiresSwitchConfirmation"`
}

// PendingInvitesResponse is the full listing payload.
type PendingInvitesResponse struct {
	Invites            []PendingInviteSummary            `json:"invites"`
	ExistingMembership *models.ExistingMembershipSummary `json:"existingMembership,omitempty"`
	DecisionToken      string                            `json:"decisionToken"`
}

// PendingInviteService matches open invitations to an arriving identity and
// builds the caller-facing candidate list. Read-only; safe to call repeatedly.
type PendingInviteService struct {
	Dynamo      *DynamoService
	Memberships *MembershipService
	Directory   *DirectoryService
	Tokens      *DecisionTokenService
	Now         func() time.Time // nil means time.Now
}

func (ps *PendingInviteService) now() time.Time {
	if ps.Now != nil {
		return ps.Now()
	}
	return time.Now()
}

// queryPendingByKeys fans one GSI query out per identity key, in parallel,
// then merges the results de-duplicated by invitationId. Records that are not
// exactly pending, or already past expiresAt, are dropped even when the index
// has not been swept yet - index staleness must never reach the caller.
func (ps *PendingInviteService) queryPendingByKeys(ctx context.Context, keys []string) ([]models.Invitation, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	tableName := models.Invitation{}.TableName()
	pendingPrefix := models.InvitationStatusPending + "#"

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error
	merged := make([]models.Invitation, 0)
	seen := make(map[string]bool)

	for _, key := range keys {
		wg.Add(1)
		go func(identityKey string) {
			defer wg.Done()

			items, err := ps.Dynamo.QueryItemsWithIndex(
				ctx,
				tableName,
				models.InviteeIdentityIndex,
				"identityKey = :identityKey AND begins_with(statusKey, :pending)",
				map[string]types.AttributeValue{
					":identityKey": &types.AttributeValueMemberS{Value: identityKey},
					":pending":     &types.AttributeValueMemberS{Value: pendingPrefix},
				},
				nil,
				0,
			)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}

			var invites []models.Invitation
			if err := attributevalue.UnmarshalListOfMaps(items, &invites); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to unmarshal invitations: %w", err)
				}
				return
			}
			for _, invite := range invites {
				if !seen[invite.InvitationID] {
					seen[invite.InvitationID] = true
					merged = append(merged, invite)
				}
			}
		}(key)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("failed to query pending invitations: %w", firstErr)
	}

	now := ps.now()
	fresh := merged[:0]
	for _, invite := range merged {
		if invite.Status != models.InvitationStatusPending {
			continue
		}
		expiresAt, err := time.Parse(time.RFC3339, invite.ExpiresAt)
		if err != nil || !expiresAt.After(now) {
			continue
		}
		fresh = append(fresh, invite)
	}
	return fresh, nil
}

// resolveCandidates runs the invitation fan-out and the membership-context
// lookup concurrently, then sorts candidates by expiresAt ascending. The sort
// is stable: equal expiries keep their input order.
func (ps *PendingInviteService) resolveCandidates(ctx context.Context, caller CallerIdentity) ([]models.Invitation, *models.ExistingMembershipSummary, error) {
	keys := utils.IdentityKeys(caller.Email, caller.Phone)

	var existing *models.ExistingMembershipSummary
	var membershipErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		existing, membershipErr = ps.Memberships.GetExistingMembership(ctx, caller.MemberID)
	}()

	invites, err := ps.queryPendingByKeys(ctx, keys)
	<-done
	if err != nil {
		return nil, nil, err
	}
	if membershipErr != nil {
		return nil, nil, membershipErr
	}

	sort.SliceStable(invites, func(i, j int) bool {
		// RFC3339 UTC timestamps order lexicographically.
		return invites[i].ExpiresAt < invites[j].ExpiresAt
	})
	return invites, existing, nil
}

// ListPendingInvitations resolves every still-open invitation addressed to
// the caller across all families, decorates each with display names, and
// mints one decision token for the follow-up accept/decline call.
func (ps *PendingInviteService) ListPendingInvitations(ctx context.Context, caller CallerIdentity) (*PendingInvitesResponse, error) {
	invites, existing, err := ps.resolveCandidates(ctx, caller)
	if err != nil {
		return nil, err
	}

	// Per-call caches so one family or inviter appearing on several
	// candidates is fetched once.
	familyNames := make(map[string]string)
	inviterNames := make(map[string]string)

	summaries := make([]PendingInviteSummary, 0, len(invites))
	for _, invite := range invites {
		familyName, ok := familyNames[invite.FamilyID]
		if !ok {
			familyName, err = ps.Directory.GetFamilyName(ctx, invite.FamilyID)
			if err != nil {
				return nil, err
			}
			familyNames[invite.FamilyID] = familyName
		}

		inviterName, ok := inviterNames[invite.InvitedBy]
		if !ok {
			inviterName, err = ps.Directory.GetMemberName(ctx, invite.InvitedBy)
			if err != nil {
				return nil, err
			}
			inviterNames[invite.InvitedBy] = inviterName
		}

		summaries = append(summaries, PendingInviteSummary{
			InviteID:                   invite.InvitationID,
			FamilyID:                   invite.FamilyID,
			FamilyName:                 familyName,
			InviterName:                inviterName,
			RoleOffered:                invite.OfferedRole,
			ExpiresAt:                  invite.ExpiresAt,
			Status:                     invite.Status,
			RequiresSwitchConfirmation: existing != nil && existing.FamilyID != invite.FamilyID,
		})
	}

	return &PendingInvitesResponse{
		Invites:            summaries,
		ExistingMembership: existing,
		DecisionToken:      ps.Tokens.Issue(caller.MemberID),
	}, nil
}
