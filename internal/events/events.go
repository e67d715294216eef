package events

var (
	JobCreatedTopic         = "JobCreatedEvent"
	JobDeletedTopic         = "JobDeletedEvent"
	PrivateMessageSentTopic = "PrivateMessageSentEvent"
	PublicMessageSentTopic  = "PublicMessageSentEvent"
)

type JobCreated struct {
	JobID      string
	Title      string
	EmployerID string
}

type JobDeleted struct {
	JobID      string
	EmployerID string
}

type PrivateMessageSent struct {
	JobID      string
	SenderID   string
	ReceiverID string
}

type PublicMessageSent struct {
	JobID    string
	SenderID string
}
