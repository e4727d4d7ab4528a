package services

import (
	"context"
	"fmt"

	"famhub_server/models"
	"famhub_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DirectoryService resolves display names for families and members. A missing
// record degrades to an empty name rather than failing the listing.
type DirectoryService struct {
	Dynamo *DynamoService
}

// GetFamilyName returns the display name for a family, or "" when unknown.
func (d *DirectoryService) GetFamilyName(ctx context.Context, familyID string) (string, error) {
	key := map[string]types.AttributeValue{
		"familyId": &types.AttributeValueMemberS{Value: familyID},
	}
	item, err := d.Dynamo.GetItem(ctx, models.Family{}.TableName(), key)
	if err != nil {
		return "", fmt.Errorf("failed to fetch family '%s': %w", familyID, err)
	}
	return utils.ExtractString(item, "name"), nil
}

// GetMemberName returns the display name for a member, or "" when unknown.
func (d *DirectoryService) GetMemberName(ctx context.Context, memberID string) (string, error) {
	key := map[string]types.AttributeValue{
		"memberId": &types.AttributeValueMemberS{Value: memberID},
	}
	item, err := d.Dynamo.GetItem(ctx, models.MemberProfile{}.TableName(), key)
	if err != nil {
		return "", fmt.Errorf("failed to fetch member profile '%s': %w", memberID, err)
	}
	return utils.ExtractString(item, "name"), nil
}
