package models

// CallDetails is one row of the contact details table. Metadata is an open
// mapping; whatever the ingesting side sends is stored and returned verbatim.
type CallDetails struct {
	ContactID     string         `json:"contactId" dynamodbav:"contactId"`
	CallTimestamp string         `json:"callTimestamp" dynamodbav:"callTimestamp"` // ISO8601
	PhoneNumber   string         `json:"phoneNumber,omitempty" dynamodbav:"phoneNumber,omitempty"`
	CustomerName  string         `json:"customerName,omitempty" dynamodbav:"customerName,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
}

// IncomingCall is the ingestion request body.
type IncomingCall struct {
	ContactID     string         `json:"contactId" binding:"required"`
	PhoneNumber   string         `json:"phoneNumber"`
	CustomerName  string         `json:"customerName"`
	CallTimestamp string         `json:"callTimestamp"` // ISO8601, defaulted if empty
	Metadata      map[string]any `json:"metadata"`
}

// Envelope wraps messages pushed to incoming-call subscribers and received
// from agent connections.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
