package entities

import "time"

type PublicMessage struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserType  UserType  `json:"userType"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type PrivateMessage struct {
	ID           string    `json:"id"`
	JobID        string    `json:"jobId"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	ReceiverID   string    `json:"receiverId"`
	ReceiverName string    `json:"receiverName"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	IsRead       bool      `json:"isRead"`
}
