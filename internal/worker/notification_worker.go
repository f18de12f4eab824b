package worker

import (
	"github.com/agrimech/crm-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to the event
// dispatcher. Called once at boot, before the HTTP server starts serving, so
// no mutation can be published without a listener attached.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
