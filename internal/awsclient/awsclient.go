// Package awsclient builds the process-wide DynamoDB client shared by the
// storage writer and the query handler's repository, instrumented with
// OpenTelemetry middleware the same way the rest of the service stack wires
// its AWS SDK clients.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	otelaws "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

// NewDynamoDB loads the default AWS config for region and returns a
// DynamoDB client with OTel SDK instrumentation middleware attached.
func NewDynamoDB(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("awsclient: load AWS config: %w", err)
	}

	otelaws.AppendMiddlewares(&cfg.APIOptions)

	return dynamodb.NewFromConfig(cfg), nil
}
