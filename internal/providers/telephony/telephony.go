package telephony

import (
	"context"
	"strings"

	"github.com/travoiq/callrelay/internal/models"
)

// Provider is the call-control plane: place and stop calls, read and set
// agent status. Implementations do not retry; a failed call surfaces the
// backend's message to the caller.
type Provider interface {
	StartOutboundCall(ctx context.Context, agentID, phoneNumber string) (contactID string, err error)
	StopCall(ctx context.Context, contactID string) error
	AgentStatus(ctx context.Context, agentID string) (*models.AgentDescriptor, error)
	SetAgentStatus(ctx context.Context, agentID, statusID string) error
}

// NormalizeAgentID accepts either a bare agent id or a fully-qualified
// resource name ("...:agent/<id>") and returns the bare id.
func NormalizeAgentID(agentID string) string {
	if i := strings.LastIndex(agentID, ":agent/"); i >= 0 {
		return agentID[i+len(":agent/"):]
	}
	return agentID
}

// NormalizePhone reduces a configured phone number to "+<digits>".
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
