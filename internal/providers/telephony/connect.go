package telephony

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/sirupsen/logrus"
	"github.com/travoiq/callrelay/internal/models"
	"github.com/travoiq/callrelay/internal/utils"
)

// ConnectAPI is the slice of the Amazon Connect client the provider uses.
type ConnectAPI interface {
	StartOutboundVoiceContact(ctx context.Context, params *connect.StartOutboundVoiceContactInput, optFns ...func(*connect.Options)) (*connect.StartOutboundVoiceContactOutput, error)
	StopContact(ctx context.Context, params *connect.StopContactInput, optFns ...func(*connect.Options)) (*connect.StopContactOutput, error)
	DescribeUser(ctx context.Context, params *connect.DescribeUserInput, optFns ...func(*connect.Options)) (*connect.DescribeUserOutput, error)
	PutUserStatus(ctx context.Context, params *connect.PutUserStatusInput, optFns ...func(*connect.Options)) (*connect.PutUserStatusOutput, error)
}

type ConnectProvider struct {
	client        ConnectAPI
	instanceID    string
	contactFlowID string
	queueID       string // optional outbound routing queue
	sourcePhone   string
	log           *logrus.Logger
}

func NewConnectProvider(client ConnectAPI, instanceID, contactFlowID, queueID, sourcePhone string, log *logrus.Logger) *ConnectProvider {
	return &ConnectProvider{
		client:        client,
		instanceID:    instanceID,
		contactFlowID: contactFlowID,
		queueID:       queueID,
		sourcePhone:   NormalizePhone(sourcePhone),
		log:           log,
	}
}

func (p *ConnectProvider) StartOutboundCall(ctx context.Context, agentID, phoneNumber string) (string, error) {
	const op = "ConnectProvider.StartOutboundCall"

	agentID = NormalizeAgentID(agentID)
	in := &connect.StartOutboundVoiceContactInput{
		DestinationPhoneNumber: aws.String(phoneNumber),
		ContactFlowId:          aws.String(p.contactFlowID),
		InstanceId:             aws.String(p.instanceID),
		SourcePhoneNumber:      aws.String(p.sourcePhone),
		Attributes:             map[string]string{"agent_id": agentID},
	}
	if p.queueID != "" {
		in.QueueId = aws.String(p.queueID)
	}

	out, err := p.client.StartOutboundVoiceContact(ctx, in)
	if err != nil {
		p.log.WithError(err).Error("start outbound voice contact failed")
		return "", utils.E(utils.CodeBackend, op, err.Error(), err)
	}
	return aws.ToString(out.ContactId), nil
}

func (p *ConnectProvider) StopCall(ctx context.Context, contactID string) error {
	const op = "ConnectProvider.StopCall"

	_, err := p.client.StopContact(ctx, &connect.StopContactInput{
		ContactId:  aws.String(contactID),
		InstanceId: aws.String(p.instanceID),
	})
	if err != nil {
		p.log.WithError(err).Error("stop contact failed")
		return utils.E(utils.CodeBackend, op, err.Error(), err)
	}
	return nil
}

func (p *ConnectProvider) AgentStatus(ctx context.Context, agentID string) (*models.AgentDescriptor, error) {
	const op = "ConnectProvider.AgentStatus"

	out, err := p.client.DescribeUser(ctx, &connect.DescribeUserInput{
		UserId:     aws.String(NormalizeAgentID(agentID)),
		InstanceId: aws.String(p.instanceID),
	})
	if err != nil {
		p.log.WithError(err).Error("describe user failed")
		return nil, utils.E(utils.CodeBackend, op, err.Error(), err)
	}

	d := &models.AgentDescriptor{}
	if u := out.User; u != nil {
		d.ID = aws.ToString(u.Id)
		d.ARN = aws.ToString(u.Arn)
		d.Username = aws.ToString(u.Username)
		d.RoutingProfileID = aws.ToString(u.RoutingProfileId)
		d.SecurityProfileIDs = u.SecurityProfileIds
		if u.IdentityInfo != nil {
			d.FirstName = aws.ToString(u.IdentityInfo.FirstName)
			d.LastName = aws.ToString(u.IdentityInfo.LastName)
		}
	}
	return d, nil
}

func (p *ConnectProvider) SetAgentStatus(ctx context.Context, agentID, statusID string) error {
	const op = "ConnectProvider.SetAgentStatus"

	_, err := p.client.PutUserStatus(ctx, &connect.PutUserStatusInput{
		UserId:        aws.String(NormalizeAgentID(agentID)),
		InstanceId:    aws.String(p.instanceID),
		AgentStatusId: aws.String(statusID),
	})
	if err != nil {
		p.log.WithError(err).Error("put user status failed")
		return utils.E(utils.CodeBackend, op, err.Error(), err)
	}
	return nil
}
