package models

type Speaker string

const (
	SpeakerCustomer Speaker = "Customer"
	SpeakerAgent    Speaker = "Agent"
)

// Segment is one transcript fragment as written by the recording pipeline.
// Attribute names match the segment tables' schema (capitalized keys);
// Speaker is assigned after reading, based on which table the row came from.
type Segment struct {
	ContactID  string  `json:"contactId" dynamodbav:"ContactId"`
	SegmentID  string  `json:"segmentId" dynamodbav:"SegmentId"`
	LoggedOn   string  `json:"loggedOn" dynamodbav:"LoggedOn"` // sortable timestamp string
	Transcript string  `json:"transcript" dynamodbav:"Transcript"`
	Speaker    Speaker `json:"speaker" dynamodbav:"-"`
}

// TranscriptMessage is the wire shape pushed to transcript subscribers.
type TranscriptMessage struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}
