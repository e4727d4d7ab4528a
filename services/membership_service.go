package services

import (
	"context"
	"fmt"

	"famhub_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MembershipService resolves the caller's membership context. It is a read
// path over the Memberships table and its MemberIndex GSI, independent of
// invitation lookups.
type MembershipService struct {
	Dynamo *DynamoService
}

// GetExistingMembership looks up whether memberID already belongs to some
// family. An active membership wins; any non-active membership is reported
// in the suspended bucket. Returns nil when the member has no memberships.
func (ms *MembershipService) GetExistingMembership(ctx context.Context, memberID string) (*models.ExistingMembershipSummary, error) {
	items, err := ms.Dynamo.QueryItemsWithIndex(
		ctx,
		models.Membership{}.TableName(),
		models.MemberIndex,
		"memberId = :memberId",
		map[string]types.AttributeValue{
			":memberId": &types.AttributeValueMemberS{Value: memberID},
		},
		nil,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve membership context: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var memberships []models.Membership
	if err := attributevalue.UnmarshalListOfMaps(items, &memberships); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memberships: %w", err)
	}

	for _, m := range memberships {
		if m.Status == models.MembershipStatusActive {
			return &models.ExistingMembershipSummary{
				FamilyID: m.FamilyID,
				Role:     m.Role,
				Status:   m.Status,
			}, nil
		}
	}

	// No active seat; surface the first one as suspended.
	first := memberships[0]
	return &models.ExistingMembershipSummary{
		FamilyID: first.FamilyID,
		Role:     first.Role,
		Status:   models.MembershipStatusSuspended,
	}, nil
}

// HasMembership reports whether a Membership record exists for the pair.
func (ms *MembershipService) HasMembership(ctx context.Context, familyID, memberID string) (bool, error) {
	key := map[string]types.AttributeValue{
		"familyId": &types.AttributeValueMemberS{Value: familyID},
		"memberId": &types.AttributeValueMemberS{Value: memberID},
	}
	item, err := ms.Dynamo.GetItem(ctx, models.Membership{}.TableName(), key)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return item != nil, nil
}
