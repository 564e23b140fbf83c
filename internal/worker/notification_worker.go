package worker

import (
	"github.com/orbita-consulting/platform/internal/events"
	"github.com/orbita-consulting/platform/internal/service"
)

// StartNotificationWorker subscribes the notification service to every
// event type that fans out into user inboxes.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService) {
	if dispatcher == nil || notificationService == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventMessageAppended,
		events.EventAssessmentCompleted,
	} {
		dispatcher.Subscribe(eventType, notificationService.HandleEvent)
	}
}
