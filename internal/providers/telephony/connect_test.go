package telephony

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/connect/types"
	"github.com/sirupsen/logrus"
	"github.com/travoiq/callrelay/internal/utils"
)

type fakeConnectAPI struct {
	startIn *connect.StartOutboundVoiceContactInput
	stopIn  *connect.StopContactInput
	descIn  *connect.DescribeUserInput
	putIn   *connect.PutUserStatusInput

	startErr error
	descErr  error
	stopErr  error
	putErr   error

	user *types.User
}

func (f *fakeConnectAPI) StartOutboundVoiceContact(ctx context.Context, params *connect.StartOutboundVoiceContactInput, optFns ...func(*connect.Options)) (*connect.StartOutboundVoiceContactOutput, error) {
	f.startIn = params
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &connect.StartOutboundVoiceContactOutput{ContactId: aws.String("contact-123")}, nil
}

func (f *fakeConnectAPI) StopContact(ctx context.Context, params *connect.StopContactInput, optFns ...func(*connect.Options)) (*connect.StopContactOutput, error) {
	f.stopIn = params
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	return &connect.StopContactOutput{}, nil
}

func (f *fakeConnectAPI) DescribeUser(ctx context.Context, params *connect.DescribeUserInput, optFns ...func(*connect.Options)) (*connect.DescribeUserOutput, error) {
	f.descIn = params
	if f.descErr != nil {
		return nil, f.descErr
	}
	return &connect.DescribeUserOutput{User: f.user}, nil
}

func (f *fakeConnectAPI) PutUserStatus(ctx context.Context, params *connect.PutUserStatusInput, optFns ...func(*connect.Options)) (*connect.PutUserStatusOutput, error) {
	f.putIn = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &connect.PutUserStatusOutput{}, nil
}

func newTestProvider(api ConnectAPI) *ConnectProvider {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewConnectProvider(api, "inst-1", "flow-1", "", "+1 (555) 010-0100", l)
}

func TestNormalizeAgentID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123", "abc123"},
		{"arn:aws:connect:us-west-2:123456789012:agent/abc123", "abc123"},
		{"", ""},
		{"prefix:agent/", ""},
	}
	for _, tt := range tests {
		if got := NormalizeAgentID(tt.in); got != tt.want {
			t.Errorf("NormalizeAgentID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (555) 010-0100", "+15550100100"},
		{"15550100100", "+15550100100"},
		{"+44 20 7946 0958", "+442079460958"},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStartOutboundCallRequestFields(t *testing.T) {
	api := &fakeConnectAPI{}
	p := newTestProvider(api)

	contactID, err := p.StartOutboundCall(context.Background(), "arn:aws:connect:us-west-2:123456789012:agent/abc123", "+15550100999")
	if err != nil {
		t.Fatalf("StartOutboundCall: %v", err)
	}
	if contactID != "contact-123" {
		t.Errorf("contact id %q", contactID)
	}

	in := api.startIn
	if aws.ToString(in.DestinationPhoneNumber) != "+15550100999" {
		t.Errorf("destination %q", aws.ToString(in.DestinationPhoneNumber))
	}
	if aws.ToString(in.ContactFlowId) != "flow-1" || aws.ToString(in.InstanceId) != "inst-1" {
		t.Errorf("flow/instance %q/%q", aws.ToString(in.ContactFlowId), aws.ToString(in.InstanceId))
	}
	if aws.ToString(in.SourcePhoneNumber) != "+15550100100" {
		t.Errorf("source phone not normalized: %q", aws.ToString(in.SourcePhoneNumber))
	}
	if in.Attributes["agent_id"] != "abc123" {
		t.Errorf("agent_id attribute %q, want bare id", in.Attributes["agent_id"])
	}
	if in.QueueId != nil {
		t.Error("queue id set without configuration")
	}
}

func TestStartOutboundCallPropagatesQueue(t *testing.T) {
	api := &fakeConnectAPI{}
	l := logrus.New()
	l.SetOutput(io.Discard)
	p := NewConnectProvider(api, "inst-1", "flow-1", "queue-9", "+15550100100", l)

	if _, err := p.StartOutboundCall(context.Background(), "abc123", "+15550100999"); err != nil {
		t.Fatalf("StartOutboundCall: %v", err)
	}
	if aws.ToString(api.startIn.QueueId) != "queue-9" {
		t.Errorf("queue id %q, want queue-9", aws.ToString(api.startIn.QueueId))
	}
}

func TestStartOutboundCallSurfacesBackendMessage(t *testing.T) {
	api := &fakeConnectAPI{startErr: errors.New("ResourceNotFoundException: flow missing")}
	p := newTestProvider(api)

	_, err := p.StartOutboundCall(context.Background(), "abc123", "+15550100999")
	if err == nil {
		t.Fatal("expected error")
	}
	if utils.HTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", utils.HTTPStatus(err))
	}
	if utils.Message(err) != "ResourceNotFoundException: flow missing" {
		t.Errorf("message %q does not carry the backend message", utils.Message(err))
	}
}

func TestStopCallFields(t *testing.T) {
	api := &fakeConnectAPI{}
	p := newTestProvider(api)

	if err := p.StopCall(context.Background(), "contact-42"); err != nil {
		t.Fatalf("StopCall: %v", err)
	}
	if aws.ToString(api.stopIn.ContactId) != "contact-42" || aws.ToString(api.stopIn.InstanceId) != "inst-1" {
		t.Errorf("stop input %q/%q", aws.ToString(api.stopIn.ContactId), aws.ToString(api.stopIn.InstanceId))
	}
}

func TestAgentStatusNormalizesAndMaps(t *testing.T) {
	api := &fakeConnectAPI{user: &types.User{
		Id:               aws.String("abc123"),
		Arn:              aws.String("arn:aws:connect:us-west-2:123456789012:agent/abc123"),
		Username:         aws.String("jdoe"),
		RoutingProfileId: aws.String("rp-1"),
		IdentityInfo:     &types.UserIdentityInfo{FirstName: aws.String("Jo"), LastName: aws.String("Doe")},
	}}
	p := newTestProvider(api)

	d, err := p.AgentStatus(context.Background(), "arn:aws:connect:us-west-2:123456789012:agent/abc123")
	if err != nil {
		t.Fatalf("AgentStatus: %v", err)
	}
	if aws.ToString(api.descIn.UserId) != "abc123" {
		t.Errorf("backend called with %q, want bare id", aws.ToString(api.descIn.UserId))
	}
	if d.Username != "jdoe" || d.FirstName != "Jo" || d.RoutingProfileID != "rp-1" {
		t.Errorf("descriptor mapping wrong: %+v", d)
	}
}

func TestSetAgentStatusFields(t *testing.T) {
	api := &fakeConnectAPI{}
	p := newTestProvider(api)

	if err := p.SetAgentStatus(context.Background(), "arn:aws:connect:us-west-2:123456789012:agent/abc123", "status-7"); err != nil {
		t.Fatalf("SetAgentStatus: %v", err)
	}
	in := api.putIn
	if aws.ToString(in.UserId) != "abc123" {
		t.Errorf("user id %q, want bare id", aws.ToString(in.UserId))
	}
	if aws.ToString(in.AgentStatusId) != "status-7" || aws.ToString(in.InstanceId) != "inst-1" {
		t.Errorf("status/instance %q/%q", aws.ToString(in.AgentStatusId), aws.ToString(in.InstanceId))
	}
}
