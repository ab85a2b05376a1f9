package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	DefaultLeadsTable = "agency_leads"

	tableWait = 2 * time.Minute
)

// GSICRMStatus lists leads by CRM sync status, oldest first.
const GSICRMStatus = "crm_status-index"

// EnsureTables creates the leads table if it does not exist.
func EnsureTables(ctx context.Context, client *dynamodb.Client, leadsTable string, log *slog.Logger) error {
	exists, err := tableExists(ctx, client, leadsTable)
	if err != nil {
		return fmt.Errorf("check table %s: %w", leadsTable, err)
	}
	if exists {
		log.Info("table exists", "table", leadsTable)
		return nil
	}

	log.Info("creating table", "table", leadsTable)
	if err := createLeadsTable(ctx, client, leadsTable); err != nil {
		return fmt.Errorf("create table %s: %w", leadsTable, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(leadsTable)}, tableWait); err != nil {
		return fmt.Errorf("wait for table %s: %w", leadsTable, err)
	}
	log.Info("table created", "table", leadsTable)
	return nil
}

func tableExists(ctx context.Context, client *dynamodb.Client, name string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func createLeadsTable(ctx context.Context, client *dynamodb.Client, name string) error {
	_, err := client.CreateTable(ctx, leadsTableInput(name))
	return err
}

func leadsTableInput(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("crm_status"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("created_at"), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(GSICRMStatus),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("crm_status"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("created_at"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
}
