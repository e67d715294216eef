package entities

// Conversation is a view derived from private messages, keyed by
// (JobID, OtherUserID) relative to one user. It is never persisted.
type Conversation struct {
	JobID         string           `json:"jobId"`
	JobTitle      string           `json:"jobTitle"`
	OtherUserID   string           `json:"otherUserId"`
	OtherUserName string           `json:"otherUserName"`
	OtherUserType UserType         `json:"otherUserType"`
	LastMessage   PrivateMessage   `json:"lastMessage"`
	UnreadCount   int              `json:"unreadCount"`
	Messages      []PrivateMessage `json:"messages"`
}
