package services

import (
	"github.com/techjobs/backend/internal/events"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

// ActivityNotifier listens on the bus and writes an activity trail for job
// and message traffic. It is the only consumer of the store events for now;
// a future push-notification channel would subscribe the same way.
type ActivityNotifier struct {
	bus EventBus.Bus
}

func NewActivityNotifier(bus EventBus.Bus) (*ActivityNotifier, error) {

	n := &ActivityNotifier{bus: bus}

	if err := bus.Subscribe(events.JobCreatedTopic, n.onJobCreated); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.JobDeletedTopic, n.onJobDeleted); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.PrivateMessageSentTopic, n.onPrivateMessageSent); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.PublicMessageSentTopic, n.onPublicMessageSent); err != nil {
		return nil, err
	}

	return n, nil
}

func (n *ActivityNotifier) Close() {
	_ = n.bus.Unsubscribe(events.JobCreatedTopic, n.onJobCreated)
	_ = n.bus.Unsubscribe(events.JobDeletedTopic, n.onJobDeleted)
	_ = n.bus.Unsubscribe(events.PrivateMessageSentTopic, n.onPrivateMessageSent)
	_ = n.bus.Unsubscribe(events.PublicMessageSentTopic, n.onPublicMessageSent)
}

func (n *ActivityNotifier) onJobCreated(event events.JobCreated) {
	log.Infof("job %v (%q) created by employer %v", event.JobID, event.Title, event.EmployerID)
}

func (n *ActivityNotifier) onJobDeleted(event events.JobDeleted) {
	log.Infof("job %v deleted by employer %v", event.JobID, event.EmployerID)
}

func (n *ActivityNotifier) onPrivateMessageSent(event events.PrivateMessageSent) {
	log.Infof("private message on job %v: %v -> %v", event.JobID, event.SenderID, event.ReceiverID)
}

func (n *ActivityNotifier) onPublicMessageSent(event events.PublicMessageSent) {
	log.Infof("public message on job %v from %v", event.JobID, event.SenderID)
}
