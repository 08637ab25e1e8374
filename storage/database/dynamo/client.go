// Package dynamorepos implements the repositories on DynamoDB, one table per collection.
package dynamorepos

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core"
)

// Secondary indexes the tables must carry.
const (
	AccountsIDIndex        = "id-index"                    // accounts: hash id
	ApplicationsEmailIndex = "email-applicationDate-index" // applications: hash email, range applicationDate
)

// Client is the part of *dynamodb.Client the repositories use.
type Client interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

// Tables names the table of each collection.
type Tables struct {
	Accounts     string
	Users        string
	Applications string
	Contact      string
}

func TablesFrom(conf *core.Config) Tables {
	return Tables{
		Accounts:     conf.Dynamo.AccountsTable,
		Users:        conf.Dynamo.UsersTable,
		Applications: conf.Dynamo.ApplicationsTable,
		Contact:      conf.Dynamo.ContactTable,
	}
}

// NewClient loads the AWS configuration for the configured region.
// When an endpoint is set (dynamodb-local, localstack), every call goes there.
func NewClient(ctx context.Context, conf *core.Config) (*dynamodb.Client, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(conf.Dynamo.Region)}
	if endpoint := conf.Dynamo.Endpoint; endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               endpoint,
				HostnameImmutable: true,
				PartitionID:       "aws",
			}, nil
		})
		opts = append(opts, awscfg.WithEndpointResolverWithOptions(resolver))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}
	return dynamodb.NewFromConfig(cfg), nil
}
