package worker

import (
	"go.uber.org/zap"

	"github.com/campus-safety/incident-service/internal/events"
	"github.com/campus-safety/incident-service/internal/persistence"
	"github.com/campus-safety/incident-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to incident
// events. When redis is configured, every event is also published to channel.
func StartNotificationWorker(dispatcher events.Dispatcher, redis *persistence.Redis, channel string, logger *zap.Logger) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	var sinks []events.EventHandler
	if redis != nil {
		sinks = append(sinks, events.NewRedisPublisher(redis.Client, channel).Handle)
		logger.Info("incident events fan out to redis", zap.String("channel", channel))
	}
	notificationService := service.NewNotificationService(dispatcher, logger, sinks...)
	notificationService.RegisterHandlers()
	return notificationService
}
