package user

import (
	"context"
	"log"

	"userhub/internal/domain"
	"userhub/internal/pkg/events"
)

// RegisterListeners republishes credential activations as the enriched
// user.activated event so downstream consumers get the full identity
// without touching the credential store.
func RegisterListeners(bus *events.Bus, svc *Service) {
	bus.Subscribe(domain.EventAuthActivated, func(ctx context.Context, payload any) {
		event, ok := payload.(domain.AuthActivatedEvent)
		if !ok {
			return
		}

		u, err := svc.Find(ctx, event.ID)
		if err != nil {
			log.Printf("user_listener event=%s id=%s error=%v", domain.EventAuthActivated, event.ID, err)
			return
		}

		bus.Publish(ctx, domain.EventUserActivated, domain.UserActivatedEvent{
			Actor: event.Actor,
			ID:    u.ID,
			Name:  u.Name,
			Last:  u.Last,
			Email: u.Email,
			Roles: u.Roles,
		})
	})
}
