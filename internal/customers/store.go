// Package customers persists the customer records created during checkout
// and edited from the profile screen. Email is the primary key, which is
// what makes duplicate registrations a conflict.
package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/aws"
)

// Record is the shape persisted in the customers table.
type Record struct {
	Email     string    `dynamodbav:"email"` // PK
	Name      string    `dynamodbav:"name"`
	Address   string    `dynamodbav:"address,omitempty"`
	Phone     string    `dynamodbav:"phone,omitempty"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// Store encapsulates customer operations against DynamoDB.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// CreateIfNotExists registers a customer when the email is not taken yet.
// Returns (created=true, nil) if successfully created.
// Returns (created=false, nil) if a record for the email already exists.
// Returns (created=false, err) on other errors.
func (s *Store) CreateIfNotExists(ctx context.Context, rec Record) (bool, error) {
	now := s.nowFunc()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(email)"),
	}

	_, err = s.client.PutItem(ctx, input)
	if err != nil {
		var sc smithy.APIError
		if errors.As(err, &sc) && sc.ErrorCode() == "ConditionalCheckFailedException" {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}

	return true, nil
}

// Get retrieves a customer by email. If not found, returns (nil, nil).
func (s *Store) Get(ctx context.Context, email string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &rec, nil
}

// ErrNotFound reports an update against an unregistered email.
var ErrNotFound = errors.New("customer not found")

// UpdateProfile rewrites the editable fields of an existing customer.
func (s *Store) UpdateProfile(ctx context.Context, email, name, address, phone string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
		UpdateExpression:         awsString("SET #n = :n, address = :a, phone = :p, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n":  &types.AttributeValueMemberS{Value: name},
			":a":  &types.AttributeValueMemberS{Value: address},
			":p":  &types.AttributeValueMemberS{Value: phone},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("attribute_exists(email)"),
		ReturnValues:        types.ReturnValueUpdatedNew,
	}
	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var sc smithy.APIError
		if errors.As(err, &sc) && sc.ErrorCode() == "ConditionalCheckFailedException" {
			return ErrNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Helper
func awsString(s string) *string { return &s }
