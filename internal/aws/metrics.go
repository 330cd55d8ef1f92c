package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the storefront.
const (
	MetricOrdersPlaced    = "OrdersPlaced"
	MetricOrdersConfirmed = "OrdersConfirmed"
	MetricSessionsExpired = "SessionsExpired"
	MetricBasketsExpired  = "BasketsExpired"
)

// Metrics emits operational counters to CloudWatch under a single namespace.
type Metrics struct {
	CW        CloudWatchAPI
	Namespace string
	nowFunc   func() time.Time
}

// NewMetrics returns a Metrics emitter bound to a namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CW:        cw,
		Namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Count publishes a single count datapoint for the named metric.
func (m *Metrics) Count(ctx context.Context, name string, value float64) error {
	ts := m.nowFunc().UTC()
	_, err := m.CW.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Timestamp:  &ts,
				Unit:       cwtypes.StandardUnitCount,
				Value:      &value,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
