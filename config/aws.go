package config

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

var (
	DynamoClient  *dynamodb.Client
	ConnectClient *connect.Client
	SSMClient     *ssm.Client
)

// InitAWS builds the shared AWS clients from the default credential chain.
func InitAWS(ctx context.Context, region string) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return err
	}

	DynamoClient = dynamodb.NewFromConfig(cfg)
	ConnectClient = connect.NewFromConfig(cfg)
	SSMClient = ssm.NewFromConfig(cfg)
	return nil
}
