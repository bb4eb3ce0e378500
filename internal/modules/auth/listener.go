package auth

import (
	"context"
	"log"

	"userhub/internal/domain"
	"userhub/internal/pkg/events"
)

// RegisterListeners wires the credential-side reactions to user lifecycle
// events: an added user gets a credential record, a deleted one loses it,
// enable/disable mirror onto the credential flag.
func RegisterListeners(bus *events.Bus, svc *Service) {
	bus.Subscribe(domain.EventUserAdded, func(ctx context.Context, payload any) {
		event, ok := payload.(domain.UserAddedEvent)
		if !ok {
			return
		}
		if err := svc.CreateCredential(ctx, event.Actor, event.ID, event.Password, event.ActivationToken); err != nil {
			log.Printf("auth_listener event=%s id=%s error=%v", domain.EventUserAdded, event.ID, err)
		}
	})

	bus.Subscribe(domain.EventUserDeleted, func(ctx context.Context, payload any) {
		event, ok := payload.(domain.UserDeletedEvent)
		if !ok {
			return
		}
		if err := svc.DeleteCredential(ctx, event.Actor, event.ID); err != nil {
			log.Printf("auth_listener event=%s id=%s error=%v", domain.EventUserDeleted, event.ID, err)
		}
	})

	bus.Subscribe(domain.EventUserEnabled, func(ctx context.Context, payload any) {
		event, ok := payload.(domain.UserEnabledEvent)
		if !ok {
			return
		}
		if err := svc.Enable(ctx, event.Actor, event.ID); err != nil {
			log.Printf("auth_listener event=%s id=%s error=%v", domain.EventUserEnabled, event.ID, err)
		}
	})

	bus.Subscribe(domain.EventUserDisabled, func(ctx context.Context, payload any) {
		event, ok := payload.(domain.UserDisabledEvent)
		if !ok {
			return
		}
		if err := svc.Disable(ctx, event.Actor, event.ID); err != nil {
			log.Printf("auth_listener event=%s id=%s error=%v", domain.EventUserDisabled, event.ID, err)
		}
	})
}
