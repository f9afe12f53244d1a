package models

// AgentDescriptor is the backend's view of one agent, flattened from the
// telephony provider's user record.
type AgentDescriptor struct {
	ID                 string   `json:"id"`
	ARN                string   `json:"arn,omitempty"`
	Username           string   `json:"username,omitempty"`
	FirstName          string   `json:"firstName,omitempty"`
	LastName           string   `json:"lastName,omitempty"`
	RoutingProfileID   string   `json:"routingProfileId,omitempty"`
	SecurityProfileIDs []string `json:"securityProfileIds,omitempty"`
}
