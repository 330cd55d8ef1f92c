package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/aws"
)

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// ErrEmailTaken indicates the transactional create lost to an existing
// customer record for the same email.
var ErrEmailTaken = errors.New("customer email already registered")

// Create persists the order without touching the customers table; used when
// the customer record already exists.
func (s *Store) Create(ctx context.Context, order Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

// CreateWithCustomerTransaction atomically creates:
//   - the customer record in customersTable (condition attribute_not_exists(email))
//   - the order record in the orders table
//
// so a first-time email registers exactly once. Returns ErrEmailTaken when
// the conditional put loses to an existing customer.
func (s *Store) CreateWithCustomerTransaction(ctx context.Context, customersTable string, customerItem any, order Order) error {
	custMap, err := attributevalue.MarshalMap(customerItem)
	if err != nil {
		return fmt.Errorf("marshal customer item: %w", err)
	}

	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	orderMap, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}

	input := &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &customersTable,
					Item:                custMap,
					ConditionExpression: awsString("attribute_not_exists(email)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           &s.tableName,
					Item:                orderMap,
					ConditionExpression: awsString("attribute_not_exists(order_id)"),
				},
			},
		},
	}

	_, err = s.client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return ErrEmailTaken
		}
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// ErrStatusMismatch reports a conditional status transition that lost.
var ErrStatusMismatch = errors.New("status mismatch/conditional failed")

// UpdateStatus conditionally updates the order status from expected -> newStatus.
// Returns ErrStatusMismatch if the order is not in the expected status.
func (s *Store) UpdateStatus(ctx context.Context, orderID, expectedStatus, newStatus string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: newStatus},
			":expected": &types.AttributeValueMemberS{Value: expectedStatus},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("#s = :expected"),
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Cancel moves a pending order to cancelled; anything past pending cannot be
// cancelled anymore.
func (s *Store) Cancel(ctx context.Context, orderID string) error {
	return s.UpdateStatus(ctx, orderID, StatusPending, StatusCancelled)
}

func awsString(s string) *string { return &s }
