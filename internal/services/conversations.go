package services

import (
	"sort"
	"strings"

	"github.com/techjobs/backend/internal/entities"
	"github.com/techjobs/backend/internal/metrics"

	"github.com/samber/lo"
)

// MissingJobTitle is shown when a conversation references a job that has
// since been deleted.
const MissingJobTitle = "Job not found"

type jobLookup interface {
	GetByID(id string) (*entities.Job, error)
}

type userDirectory interface {
	FindByID(id string) (*entities.User, bool)
}

// ConversationService derives the threaded conversation view from the flat
// private message log. The view is recomputed from scratch on every call;
// nothing here is cached or persisted.
type ConversationService struct {
	chat  *ChatService
	jobs  jobLookup
	users userDirectory
}

func NewConversationService(chat *ChatService, jobs jobLookup, users userDirectory) *ConversationService {
	return &ConversationService{chat: chat, jobs: jobs, users: users}
}

func (s *ConversationService) ListFor(user *entities.User) ([]entities.Conversation, error) {

	if user == nil {
		return nil, ErrNotAuthenticated
	}

	conversations := DeriveConversations(s.chat.allPrivate(), user, s.titleOf, s.roleOf)
	metrics.ConversationsDerivedCounter.Inc()
	return conversations, nil
}

func (s *ConversationService) titleOf(jobID string) string {
	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return MissingJobTitle
	}
	return job.Title
}

func (s *ConversationService) roleOf(userID string) (entities.UserType, bool) {
	if s.users == nil {
		return "", false
	}
	user, ok := s.users.FindByID(userID)
	if !ok {
		return "", false
	}
	return user.Type, true
}

// DeriveConversations groups the user's private messages by
// (jobID, otherUserID). Each group carries the full message list in log
// order, the most recent message (a strictly later timestamp replaces the
// holder, ties keep the earlier-seen one) and the count of unread messages
// addressed to the user. Groups come out sorted by recency of their last
// message, newest first.
//
// The counterpart's role is resolved through the user directory when the
// counterpart is known there; otherwise it falls back to inferring the role
// from the direction of the first message, which is all the message metadata
// can tell us.
func DeriveConversations(messages []entities.PrivateMessage, user *entities.User,
	titleOf func(jobID string) string, roleOf func(userID string) (entities.UserType, bool)) []entities.Conversation {

	type groupKey struct {
		jobID       string
		otherUserID string
	}

	groups := make(map[groupKey]*entities.Conversation)
	var order []groupKey

	for _, msg := range messages {
		if msg.SenderID != user.ID && msg.ReceiverID != user.ID {
			continue
		}

		otherUserID, otherUserName := msg.ReceiverID, msg.ReceiverName
		inferredType := entities.UserTypeCandidate
		if msg.SenderID != user.ID {
			otherUserID, otherUserName = msg.SenderID, msg.SenderName
			inferredType = entities.UserTypeEmployer
		}

		key := groupKey{jobID: msg.JobID, otherUserID: otherUserID}
		conv, ok := groups[key]
		if !ok {
			role := inferredType
			if resolved, found := roleOf(otherUserID); found {
				role = resolved
			}
			conv = &entities.Conversation{
				JobID:         msg.JobID,
				JobTitle:      titleOf(msg.JobID),
				OtherUserID:   otherUserID,
				OtherUserName: otherUserName,
				OtherUserType: role,
				LastMessage:   msg,
			}
			groups[key] = conv
			order = append(order, key)
		}

		conv.Messages = append(conv.Messages, msg)

		if msg.CreatedAt.After(conv.LastMessage.CreatedAt) {
			conv.LastMessage = msg
		}

		if msg.ReceiverID == user.ID && !msg.IsRead {
			conv.UnreadCount++
		}
	}

	conversations := make([]entities.Conversation, 0, len(order))
	for _, key := range order {
		conversations = append(conversations, *groups[key])
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})
	return conversations
}

// FilterConversations matches the term against the job title and the
// counterpart's name, case-insensitively. An empty term matches everything.
func FilterConversations(conversations []entities.Conversation, term string) []entities.Conversation {

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return conversations
	}

	return lo.Filter(conversations, func(conv entities.Conversation, _ int) bool {
		return strings.Contains(strings.ToLower(conv.JobTitle), term) ||
			strings.Contains(strings.ToLower(conv.OtherUserName), term)
	})
}
