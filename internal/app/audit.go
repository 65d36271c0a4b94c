package app

import (
	"errors"

	"lvlhub-server-go/internal/domain/eventbus"
	"lvlhub-server-go/internal/platform/logging"
)

// registerAuditSubscribers logs the lifecycle events the domains publish.
// Tokens never appear in event payloads, so everything here is safe to log.
func registerAuditSubscribers(bus *eventbus.Bus, logger *logging.Logger) error {
	if bus == nil {
		return nil
	}

	sessionLog := func(action string) func(eventbus.SessionEventData) {
		return func(data eventbus.SessionEventData) {
			logger.Info("[AUDIT] session %s user=%s expires=%s",
				action, data.UserID, data.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
		}
	}

	return errors.Join(
		bus.SubscribeAsync(eventbus.EventSessionIssued, sessionLog("issued")),
		bus.SubscribeAsync(eventbus.EventSessionRefreshed, sessionLog("refreshed")),
		bus.SubscribeAsync(eventbus.EventSessionRevoked, sessionLog("revoked")),
		bus.SubscribeAsync(eventbus.EventSessionExpired, sessionLog("expired")),
		bus.SubscribeAsync(eventbus.EventAuthFailed, func(data eventbus.AuthEventData) {
			logger.Warn("[AUDIT] auth failed user=%s reason=%s", data.Username, data.Reason)
		}),
		bus.SubscribeAsync(eventbus.EventAuthSucceeded, func(data eventbus.AuthEventData) {
			logger.Info("[AUDIT] auth succeeded user=%s", data.Username)
		}),
		bus.SubscribeAsync(eventbus.EventDispatchFailed, func(data eventbus.DispatchEventData) {
			logger.Warn("[AUDIT] dispatch failed id=%s type=%s user=%s err=%s",
				data.RequestID, data.RequestType, data.UserID, data.Error)
		}),
	)
}
