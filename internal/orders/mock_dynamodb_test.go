package orders

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory mock that supports the calls the orders
// store makes. Items live per table in a nested map: table -> pk -> item.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *mockDynamo) ensureTable(tbl string) {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
}

// pkOf pulls whichever primary key the item carries.
func pkOf(item map[string]types.AttributeValue) (string, error) {
	for _, attr := range []string{"order_id", "email", "k"} {
		if v, ok := item[attr]; ok {
			return v.(*types.AttributeValueMemberS).Value, nil
		}
	}
	return "", errors.New("item has no known primary key")
}

func keyOf(key map[string]types.AttributeValue) (string, error) {
	for _, v := range key {
		return v.(*types.AttributeValueMemberS).Value, nil
	}
	return "", errors.New("empty key")
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil {
		if _, exists := m.tables[table][pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.tables[table][pk]
	if !ok {
		return nil, errors.New("item not found")
	}
	// conditional status guard: #s = :expected
	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :expected" {
		expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		current, ok := item["status"].(*types.AttributeValueMemberS)
		if !ok || current.Value != expected {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	// naive SET support for the expressions the store issues
	if v, ok := params.ExpressionAttributeValues[":new"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	m.tables[table][pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.tables[table], pk)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// first pass: any conditional put against an existing item cancels the
	// whole transaction
	for _, it := range params.TransactItems {
		p := it.Put
		if p == nil || p.ConditionExpression == nil {
			continue
		}
		table := *p.TableName
		m.ensureTable(table)
		pk, err := pkOf(p.Item)
		if err != nil {
			return nil, err
		}
		if _, exists := m.tables[table][pk]; exists {
			return nil, &types.TransactionCanceledException{}
		}
	}
	// second pass: apply all puts
	for _, it := range params.TransactItems {
		p := it.Put
		if p == nil {
			continue
		}
		table := *p.TableName
		m.ensureTable(table)
		pk, err := pkOf(p.Item)
		if err != nil {
			return nil, err
		}
		m.tables[table][pk] = p.Item
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
