package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"famhub_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// engineFixture is a small in-memory stand-in for the DynamoDB tables the
// engine reads. Writes are observed through the recorded transact inputs.
type engineFixture struct {
	mu           sync.Mutex
	invitations  []models.Invitation
	memberships  []models.Membership
	familyNames  map[string]string
	memberNames  map[string]string
	getItemCalls map[string]int // per table

	transactInputs []*dynamodb.TransactWriteItemsInput
	transactErr    func(input *dynamodb.TransactWriteItemsInput) error
}

func newEngineFixture() *engineFixture {
	return &engineFixture{
		familyNames:  map[string]string{},
		memberNames:  map[string]string{},
		getItemCalls: map[string]int{},
	}
}

func attrString(values map[string]types.AttributeValue, name string) string {
	if v, ok := values[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *engineFixture) client(t *testing.T) *fakeDynamoClient {
	t.Helper()
	return &fakeDynamoClient{
		QueryFunc: func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			if params.IndexName != nil && *params.IndexName == models.InviteeIdentityIndex {
				key := attrString(params.ExpressionAttributeValues, ":identityKey")
				prefix := attrString(params.ExpressionAttributeValues, ":pending")
				var items []map[string]types.AttributeValue
				for _, invite := range f.invitations {
					if invite.IdentityKey != key || !strings.HasPrefix(invite.StatusKey, prefix) {
						continue
					}
					item, err := attributevalue.MarshalMap(invite)
					if err != nil {
						t.Fatalf("marshal invitation: %v", err)
					}
					items = append(items, item)
				}
				return &dynamodb.QueryOutput{Items: items}, nil
			}

			if params.IndexName != nil && *params.IndexName == models.MemberIndex {
				memberID := attrString(params.ExpressionAttributeValues, ":memberId")
				var items []map[string]types.AttributeValue
				for _, m := range f.memberships {
					if m.MemberID != memberID {
						continue
					}
					item, err := attributevalue.MarshalMap(m)
					if err != nil {
						t.Fatalf("marshal membership: %v", err)
					}
					items = append(items, item)
				}
				return &dynamodb.QueryOutput{Items: items}, nil
			}

			t.Fatalf("unexpected query: %+v", params)
			return nil, nil
		},
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.getItemCalls[*params.TableName]++

			switch *params.TableName {
			case models.Family{}.TableName():
				familyID := attrString(params.Key, "familyId")
				if name, ok := f.familyNames[familyID]; ok {
					return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
						"familyId": &types.AttributeValueMemberS{Value: familyID},
						"name":     &types.AttributeValueMemberS{Value: name},
					}}, nil
				}
				return &dynamodb.GetItemOutput{}, nil
			case models.MemberProfile{}.TableName():
				memberID := attrString(params.Key, "memberId")
				if name, ok := f.memberNames[memberID]; ok {
					return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
						"memberId": &types.AttributeValueMemberS{Value: memberID},
						"name":     &types.AttributeValueMemberS{Value: name},
					}}, nil
				}
				return &dynamodb.GetItemOutput{}, nil
			case models.Membership{}.TableName():
				familyID := attrString(params.Key, "familyId")
				memberID := attrString(params.Key, "memberId")
				for _, m := range f.memberships {
					if m.FamilyID == familyID && m.MemberID == memberID {
						item, err := attributevalue.MarshalMap(m)
						if err != nil {
							t.Fatalf("marshal membership: %v", err)
						}
						return &dynamodb.GetItemOutput{Item: item}, nil
					}
				}
				return &dynamodb.GetItemOutput{}, nil
			}

			t.Fatalf("unexpected get item against table %s", *params.TableName)
			return nil, nil
		},
		TransactWriteItemsFunc: func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.transactErr != nil {
				if err := f.transactErr(params); err != nil {
					return nil, err
				}
			}
			f.transactInputs = append(f.transactInputs, params)
			return &dynamodb.TransactWriteItemsOutput{}, nil
		},
	}
}

func (f *engineFixture) services(t *testing.T) (*PendingInviteService, *DecisionService) {
	t.Helper()
	dynamo := &DynamoService{Client: f.client(t)}
	tokens := &DecisionTokenService{Secret: []byte("test-secret"), Now: func() time.Time { return testNow }}
	memberships := &MembershipService{Dynamo: dynamo}
	directory := &DirectoryService{Dynamo: dynamo}
	invites := &PendingInviteService{
		Dynamo:      dynamo,
		Memberships: memberships,
		Directory:   directory,
		Tokens:      tokens,
		Now:         func() time.Time { return testNow },
	}
	decisions := &DecisionService{
		Dynamo:      dynamo,
		Invites:     invites,
		Memberships: memberships,
		Tokens:      tokens,
		Now:         func() time.Time { return testNow },
	}
	return invites, decisions
}

func testInvitation(familyID, inviteID, identityKey, role string, expiresIn time.Duration) models.Invitation {
	expiresAt := testNow.Add(expiresIn).Format(time.RFC3339)
	return models.Invitation{
		FamilyID:     familyID,
		InvitationID: inviteID,
		TargetEmail:  identityKey,
		IdentityKey:  identityKey,
		Status:       models.InvitationStatusPending,
		StatusKey:    models.StatusKeyFor(models.InvitationStatusPending, expiresAt),
		OfferedRole:  role,
		InvitedBy:    "inviter-1",
		CreatedAt:    testNow.Add(-time.Hour).Format(time.RFC3339),
		ExpiresAt:    expiresAt,
	}
}
