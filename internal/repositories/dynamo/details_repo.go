package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/travoiq/callrelay/internal/models"
	"github.com/travoiq/callrelay/internal/utils"
)

type DetailsRepository interface {
	Get(ctx context.Context, contactID string) (*models.CallDetails, error)
	Put(ctx context.Context, d *models.CallDetails) error
	Sample(ctx context.Context, limit int32) ([]models.CallDetails, error)
}

type detailsRepo struct {
	db    API
	table string
}

func NewDetailsRepo(db API, table string) DetailsRepository {
	return &detailsRepo{db: db, table: table}
}

func (r *detailsRepo) Get(ctx context.Context, contactID string) (*models.CallDetails, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"contactId": &types.AttributeValueMemberS{Value: contactID},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, utils.ErrNotFound
	}

	var d models.CallDetails
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *detailsRepo) Put(ctx context.Context, d *models.CallDetails) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return err
	}
	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	return err
}

// Sample returns up to limit rows in scan order. Scan order does not track
// write order, so callers sorting the sample get an approximation of recency.
func (r *detailsRepo) Sample(ctx context.Context, limit int32) ([]models.CallDetails, error) {
	out, err := r.db.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
		Limit:     aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}

	var ds []models.CallDetails
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}
