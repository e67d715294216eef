package api

import (
	"net/http"

	"github.com/techjobs/backend/internal/entities"
	"github.com/techjobs/backend/internal/services"
	"github.com/techjobs/backend/pkg/timefmt"

	"github.com/samber/lo"
)

type messageInput struct {
	Content      string `json:"content"`
	ReceiverName string `json:"receiverName,omitempty"`
}

type publicMessageView struct {
	entities.PublicMessage
	TimeLabel string `json:"timeLabel"`
	DayLabel  string `json:"dayLabel"`
}

type privateMessageView struct {
	entities.PrivateMessage
	TimeLabel string `json:"timeLabel"`
	DayLabel  string `json:"dayLabel"`
}

type conversationView struct {
	entities.Conversation
	LastMessageLabel string `json:"lastMessageLabel"`
}

func (s *Server) handlePublicThread(w http.ResponseWriter, r *http.Request) {

	now := s.now()
	messages := s.chat.PublicForJob(r.PathValue("id"))

	writeData(w, lo.Map(messages, func(msg entities.PublicMessage, _ int) publicMessageView {
		return publicMessageView{
			PublicMessage: msg,
			TimeLabel:     timefmt.RelativeLabel(now, msg.CreatedAt),
			DayLabel:      timefmt.DayLabel(now, msg.CreatedAt),
		}
	}))
}

func (s *Server) handleSendPublic(w http.ResponseWriter, r *http.Request) {

	var input messageInput
	if !decodeBody(w, r, &input) {
		return
	}

	if err := s.chat.SendPublic(r.Context(), userFrom(r), r.PathValue("id"), input.Content); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payload{Success: true, Message: "Message sent"})
}

// handlePrivateThread returns the thread and, because viewing a thread is
// what marks it as read, flips the unread flags addressed to the viewer
// first.
func (s *Server) handlePrivateThread(w http.ResponseWriter, r *http.Request) {

	user := userFrom(r)
	jobID, otherUserID := r.PathValue("id"), r.PathValue("userId")

	if err := s.chat.MarkRead(r.Context(), user, jobID, otherUserID); err != nil {
		writeServiceError(w, err)
		return
	}

	now := s.now()
	messages := s.chat.ThreadFor(user, jobID, otherUserID)

	writeData(w, lo.Map(messages, func(msg entities.PrivateMessage, _ int) privateMessageView {
		return privateMessageView{
			PrivateMessage: msg,
			TimeLabel:      timefmt.RelativeLabel(now, msg.CreatedAt),
			DayLabel:       timefmt.DayLabel(now, msg.CreatedAt),
		}
	}))
}

func (s *Server) handleSendPrivate(w http.ResponseWriter, r *http.Request) {

	var input messageInput
	if !decodeBody(w, r, &input) {
		return
	}

	err := s.chat.SendPrivate(r.Context(), userFrom(r),
		r.PathValue("id"), r.PathValue("userId"), input.ReceiverName, input.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payload{Success: true, Message: "Message sent"})
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {

	conversations, err := s.conversations.ListFor(userFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	conversations = services.FilterConversations(conversations, r.URL.Query().Get("q"))

	now := s.now()
	writeData(w, lo.Map(conversations, func(conv entities.Conversation, _ int) conversationView {
		return conversationView{
			Conversation:     conv,
			LastMessageLabel: timefmt.RelativeLabel(now, conv.LastMessage.CreatedAt),
		}
	}))
}
