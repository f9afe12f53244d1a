package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/travoiq/callrelay/internal/models"
)

// SegmentRepository reads the two transcript segment tables. The tables are
// append-only and independently written; rows come back unordered.
type SegmentRepository interface {
	CustomerSegments(ctx context.Context, callID string) ([]models.Segment, error)
	AgentSegments(ctx context.Context, callID string) ([]models.Segment, error)
}

type segmentRepo struct {
	db            API
	customerTable string
	agentTable    string
}

func NewSegmentRepo(db API, customerTable, agentTable string) SegmentRepository {
	return &segmentRepo{db: db, customerTable: customerTable, agentTable: agentTable}
}

func (r *segmentRepo) CustomerSegments(ctx context.Context, callID string) ([]models.Segment, error) {
	return r.query(ctx, r.customerTable, callID)
}

func (r *segmentRepo) AgentSegments(ctx context.Context, callID string) ([]models.Segment, error) {
	return r.query(ctx, r.agentTable, callID)
}

func (r *segmentRepo) query(ctx context.Context, table, callID string) ([]models.Segment, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(table),
		KeyConditionExpression: aws.String("ContactId = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: callID},
		},
	})
	if err != nil {
		return nil, err
	}

	var segs []models.Segment
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &segs); err != nil {
		return nil, err
	}
	return segs, nil
}
