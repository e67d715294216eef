package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/techjobs/backend/internal/config"
	"github.com/techjobs/backend/internal/entities"
	"github.com/techjobs/backend/internal/events"
	"github.com/techjobs/backend/internal/metrics"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

// ChatService owns the two append-only message collections: the public
// per-job threads and the private per-job, per-user-pair threads.
type ChatService struct {
	public  *collection[entities.PublicMessage]
	private *collection[entities.PrivateMessage]
	bus     EventBus.Bus
	cfg     config.StoreConfig
	newID   idGenerator
	now     clock

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

func NewChatService(ctx context.Context, store collectionStore, bus EventBus.Bus, cfg config.StoreConfig) (*ChatService, error) {

	public, err := loadCollection[entities.PublicMessage](ctx, store, publicMessagesCollection, cfg.PersistEmpty)
	if err != nil {
		return nil, err
	}

	private, err := loadCollection[entities.PrivateMessage](ctx, store, privateMessagesCollection, cfg.PersistEmpty)
	if err != nil {
		return nil, err
	}

	return &ChatService{
		public:   public,
		private:  private,
		bus:      bus,
		cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
		limiters: map[string]*rate.Limiter{},
	}, nil
}

func (s *ChatService) SendPublic(ctx context.Context, user *entities.User, jobID, content string) error {

	content = strings.TrimSpace(content)

	if user == nil {
		return ErrNotAuthenticated
	}
	if content == "" {
		return ErrEmptyContent
	}
	if !s.allowSend(user.ID) {
		return ErrRateLimited
	}

	defer observeOperation("public_send")()
	simulate(s.cfg.MessageLatency)

	message := entities.PublicMessage{
		ID:        s.newID(),
		JobID:     jobID,
		UserID:    user.ID,
		UserName:  user.Name,
		UserType:  user.Type,
		Content:   content,
		CreatedAt: s.now(),
	}

	err := s.public.update(ctx, func(messages []entities.PublicMessage) ([]entities.PublicMessage, bool) {
		return append(messages, message), true
	})
	if err != nil {
		return err
	}

	metrics.MessagesSentCounter.WithLabelValues("public").Inc()
	s.bus.Publish(events.PublicMessageSentTopic, events.PublicMessageSent{
		JobID:    jobID,
		SenderID: user.ID,
	})
	return nil
}

// PublicForJob returns the job's public thread ordered by creation time,
// insertion order breaking ties.
func (s *ChatService) PublicForJob(jobID string) []entities.PublicMessage {

	messages := lo.Filter(s.public.snapshot(), func(msg entities.PublicMessage, _ int) bool {
		return msg.JobID == jobID
	})

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages
}

func (s *ChatService) SendPrivate(ctx context.Context, user *entities.User, jobID, receiverID, receiverName, content string) error {

	content = strings.TrimSpace(content)

	if user == nil {
		return ErrNotAuthenticated
	}
	if content == "" {
		return ErrEmptyContent
	}
	if !s.allowSend(user.ID) {
		return ErrRateLimited
	}

	defer observeOperation("private_send")()
	simulate(s.cfg.MessageLatency)

	message := entities.PrivateMessage{
		ID:           s.newID(),
		JobID:        jobID,
		SenderID:     user.ID,
		SenderName:   user.Name,
		ReceiverID:   receiverID,
		ReceiverName: receiverName,
		Content:      content,
		CreatedAt:    s.now(),
		IsRead:       false,
	}

	err := s.private.update(ctx, func(messages []entities.PrivateMessage) ([]entities.PrivateMessage, bool) {
		return append(messages, message), true
	})
	if err != nil {
		return err
	}

	metrics.MessagesSentCounter.WithLabelValues("private").Inc()
	s.bus.Publish(events.PrivateMessageSentTopic, events.PrivateMessageSent{
		JobID:      jobID,
		SenderID:   user.ID,
		ReceiverID: receiverID,
	})
	return nil
}

// ThreadFor returns the private thread between the user and otherUserID on
// one job, matching the pair in either direction, ordered like PublicForJob.
func (s *ChatService) ThreadFor(user *entities.User, jobID, otherUserID string) []entities.PrivateMessage {

	if user == nil {
		return nil
	}

	messages := lo.Filter(s.private.snapshot(), func(msg entities.PrivateMessage, _ int) bool {
		if msg.JobID != jobID {
			return false
		}
		return (msg.SenderID == user.ID && msg.ReceiverID == otherUserID) ||
			(msg.SenderID == otherUserID && msg.ReceiverID == user.ID)
	})

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages
}

// MarkRead flips isRead on every message of the thread where the acting user
// is the receiver. Re-running it has no further effect and does not rewrite
// the collection.
func (s *ChatService) MarkRead(ctx context.Context, user *entities.User, jobID, otherUserID string) error {

	if user == nil {
		return ErrNotAuthenticated
	}

	return s.private.update(ctx, func(messages []entities.PrivateMessage) ([]entities.PrivateMessage, bool) {
		changed := false
		for i := range messages {
			if messages[i].JobID == jobID &&
				messages[i].SenderID == otherUserID &&
				messages[i].ReceiverID == user.ID &&
				!messages[i].IsRead {
				messages[i].IsRead = true
				changed = true
			}
		}
		return messages, changed
	})
}

func (s *ChatService) allPrivate() []entities.PrivateMessage {
	return s.private.snapshot()
}

func (s *ChatService) allowSend(userID string) bool {

	if s.cfg.MessagesPerMinute <= 0 {
		return true
	}

	s.limitersMu.Lock()
	limiter, ok := s.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.cfg.MessagesPerMinute)), s.cfg.MessagesPerMinute)
		s.limiters[userID] = limiter
	}
	s.limitersMu.Unlock()

	return limiter.Allow()
}
