package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// fakeDynamoClient implements DynamoDBAPI with overridable function fields.
type fakeDynamoClient struct {
	QueryFunc              func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItemFunc            func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItemFunc            func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItemFunc         func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	TransactWriteItemsFunc func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.QueryFunc == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return f.QueryFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.GetItemFunc == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.GetItemFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.PutItemFunc == nil {
		return &dynamodb.PutItemOutput{}, nil
	}
	return f.PutItemFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.UpdateItemFunc == nil {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return f.UpdateItemFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	if f.TransactWriteItemsFunc == nil {
		return &dynamodb.TransactWriteItemsOutput{}, nil
	}
	return f.TransactWriteItemsFunc(ctx, params, optFns...)
}
