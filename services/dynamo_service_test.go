package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestTransactWriteItems_ConditionFailureMapsToErrConditionFailed(t *testing.T) {
	fake := &fakeDynamoClient{
		TransactWriteItemsFunc: func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
			return nil, &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("ConditionalCheckFailed")},
					{Code: aws.String("None")},
				},
			}
		},
	}
	ds := &DynamoService{Client: fake}

	err := ds.TransactWriteItems(context.Background(), nil)
	if !errors.Is(err, ErrConditionFailed) {
		t.Errorf("expected ErrConditionFailed, got %v", err)
	}
}

func TestTransactWriteItems_OtherCancellationIsNotConditionFailure(t *testing.T) {
	fake := &fakeDynamoClient{
		TransactWriteItemsFunc: func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
			return nil, &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("TransactionConflict")},
				},
			}
		},
	}
	ds := &DynamoService{Client: fake}

	err := ds.TransactWriteItems(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrConditionFailed) {
		t.Errorf("transaction conflict must not be reported as a condition failure: %v", err)
	}
}

func TestUpdateItemWithCondition_ConditionFailure(t *testing.T) {
	fake := &fakeDynamoClient{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	ds := &DynamoService{Client: fake}

	err := ds.UpdateItemWithCondition(context.Background(), "Invitations", nil, "SET #s = :v", "#s = :old", nil, nil)
	if !errors.Is(err, ErrConditionFailed) {
		t.Errorf("expected ErrConditionFailed, got %v", err)
	}
}

func TestGetItem_MissingItemReturnsNil(t *testing.T) {
	fake := &fakeDynamoClient{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}
	ds := &DynamoService{Client: fake}

	item, err := ds.GetItem(context.Background(), "Families", nil)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil item for a missing record, got %v", item)
	}
}
