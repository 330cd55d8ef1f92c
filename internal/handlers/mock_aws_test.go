package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// mockDynamo is an in-memory mock covering the calls the handlers issue.
// Items live per table in a nested map: table -> pk -> item.
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
		if params.ConditionExpression != nil {
			return nil, &types.ConditionalCheckFailedException{}
		}
		return nil, errors.New("item not found")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :expected" {
		expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		current, ok := item["status"].(*types.AttributeValueMemberS)
		if !ok || current.Value != expected {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
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

// mockSQS records every sent message.
type mockSQS struct {
	mu   sync.Mutex
	sent []*sqs.SendMessageInput
	err  error
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, params)
	return &sqs.SendMessageOutput{}, nil
}

func (m *mockSQS) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// mockCloudWatch counts datapoints per metric name.
type mockCloudWatch struct {
	mu     sync.Mutex
	counts map[string]float64
}

func newMockCloudWatch() *mockCloudWatch {
	return &mockCloudWatch{counts: map[string]float64{}}
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range params.MetricData {
		if d.MetricName != nil && d.Value != nil {
			m.counts[*d.MetricName] += *d.Value
		}
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}
