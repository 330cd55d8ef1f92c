package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/aws"
)

// dynamoRecord is the single-table shape used by the DynamoDB-backed KV.
type dynamoRecord struct {
	Key   string `dynamodbav:"k"` // PK
	Value []byte `dynamodbav:"v"`
}

// Dynamo backs the KV with a single DynamoDB table keyed by "k".
type Dynamo struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewDynamo returns a DynamoDB-backed KV bound to tableName.
func NewDynamo(client aws.DynamoDBAPI, tableName string) *Dynamo {
	return &Dynamo{client: client, tableName: tableName}
}

func (d *Dynamo) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &d.tableName,
		Key: map[string]types.AttributeValue{
			"k": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec dynamoRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return rec.Value, nil
}

func (d *Dynamo) Set(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(dynamoRecord{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &d.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (d *Dynamo) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		_, err := d.client.DeleteItem(ctx, &dyn.DeleteItemInput{
			TableName: &d.tableName,
			Key: map[string]types.AttributeValue{
				"k": &types.AttributeValueMemberS{Value: k},
			},
		})
		if err != nil {
			return fmt.Errorf("delete item %q: %w", k, err)
		}
	}
	return nil
}
