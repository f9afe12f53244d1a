package dynamo

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func segmentItem(id, loggedOn, text string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"ContactId":  &types.AttributeValueMemberS{Value: "call-1"},
		"SegmentId":  &types.AttributeValueMemberS{Value: id},
		"LoggedOn":   &types.AttributeValueMemberS{Value: loggedOn},
		"Transcript": &types.AttributeValueMemberS{Value: text},
	}
}

func TestCustomerSegmentsQuery(t *testing.T) {
	api := &fakeAPI{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		segmentItem("s1", "2024-06-01T10:00:00Z", "hello"),
	}}}
	repo := NewSegmentRepo(api, "cust-table", "agent-table")

	segs, err := repo.CustomerSegments(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("CustomerSegments: %v", err)
	}
	if aws.ToString(api.queryIn.TableName) != "cust-table" {
		t.Errorf("table %q, want cust-table", aws.ToString(api.queryIn.TableName))
	}
	if aws.ToString(api.queryIn.KeyConditionExpression) != "ContactId = :cid" {
		t.Errorf("key condition %q", aws.ToString(api.queryIn.KeyConditionExpression))
	}
	cid, ok := api.queryIn.ExpressionAttributeValues[":cid"].(*types.AttributeValueMemberS)
	if !ok || cid.Value != "call-1" {
		t.Errorf("expression values %#v", api.queryIn.ExpressionAttributeValues)
	}

	if len(segs) != 1 {
		t.Fatalf("got %d segments", len(segs))
	}
	if segs[0].SegmentID != "s1" || segs[0].Transcript != "hello" {
		t.Errorf("unmarshaled %+v", segs[0])
	}
	if segs[0].Speaker != "" {
		t.Errorf("repo must not assign a speaker, got %q", segs[0].Speaker)
	}
}

func TestAgentSegmentsUsesAgentTable(t *testing.T) {
	api := &fakeAPI{}
	repo := NewSegmentRepo(api, "cust-table", "agent-table")

	if _, err := repo.AgentSegments(context.Background(), "call-1"); err != nil {
		t.Fatalf("AgentSegments: %v", err)
	}
	if aws.ToString(api.queryIn.TableName) != "agent-table" {
		t.Errorf("table %q, want agent-table", aws.ToString(api.queryIn.TableName))
	}
}

func TestSegmentsEmptyResult(t *testing.T) {
	repo := NewSegmentRepo(&fakeAPI{}, "c", "a")

	segs, err := repo.CustomerSegments(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("CustomerSegments: %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("got %d segments from empty table", len(segs))
	}
}
