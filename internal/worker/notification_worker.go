package worker

import (
	"github.com/snackparty/catering-api/internal/events"
	"github.com/snackparty/catering-api/internal/service"
)

// StartNotificationWorker subscribes the admin email handlers to the
// dispatcher. Handlers run on the dispatcher's own goroutines.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// Drain blocks until every in-flight notification has finished.
func Drain(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Wait()
}
