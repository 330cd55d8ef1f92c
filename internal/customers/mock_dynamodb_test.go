package customers

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a minimal in-memory mock for PutItem/GetItem/UpdateItem keyed
// by the email attribute.
type simpleMock struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue
}

func newSimpleMock() *simpleMock {
	return &simpleMock{table: map[string]map[string]types.AttributeValue{}}
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := params.Item["email"]
	if keyAttr == nil {
		return nil, errors.New("missing email")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(email)" {
		if _, ok := m.table[k]; ok {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := params.Key["email"]
	if keyAttr == nil {
		return nil, errors.New("missing email")
	}
	item, ok := m.table[keyAttr.(*types.AttributeValueMemberS).Value]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := params.Key["email"]
	if keyAttr == nil {
		return nil, errors.New("missing email")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value
	item, ok := m.table[k]
	if !ok {
		if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(email)" {
			return nil, &types.ConditionalCheckFailedException{}
		}
		return nil, errors.New("item not found")
	}
	if v, ok := params.ExpressionAttributeValues[":n"]; ok {
		item["name"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":a"]; ok {
		item["address"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":p"]; ok {
		item["phone"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	m.table[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *simpleMock) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := params.Key["email"]
	if keyAttr == nil {
		return nil, errors.New("missing email")
	}
	delete(m.table, keyAttr.(*types.AttributeValueMemberS).Value)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *simpleMock) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	return nil, errors.New("not supported by simpleMock")
}
