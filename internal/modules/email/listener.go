package email

import (
	"context"
	"log"

	"userhub/internal/domain"
	"userhub/internal/pkg/events"
)

// RegisterListeners hooks the mail flows onto the account lifecycle:
// welcome mail on creation or self-registration, confirmation mail once
// the account is activated.
func RegisterListeners(bus *events.Bus, svc *Service) {
	bus.Subscribe(domain.EventUserCreated, func(ctx context.Context, payload any) {
		event, ok := payload.(domain.UserCreatedEvent)
		if !ok {
			return
		}
		if err := svc.SendWelcome(event.Email, event.Name, event.ID, event.ActivationToken); err != nil {
			log.Printf("email_listener event=%s id=%s error=%v", domain.EventUserCreated, event.ID, err)
		}
	})

	bus.Subscribe(domain.EventUserRegistered, func(ctx context.Context, payload any) {
		event, ok := payload.(domain.UserRegisteredEvent)
		if !ok {
			return
		}
		if err := svc.SendWelcome(event.Email, event.Name, event.ID, event.ActivationToken); err != nil {
			log.Printf("email_listener event=%s id=%s error=%v", domain.EventUserRegistered, event.ID, err)
		}
	})

	bus.Subscribe(domain.EventUserActivated, func(ctx context.Context, payload any) {
		event, ok := payload.(domain.UserActivatedEvent)
		if !ok {
			return
		}
		if err := svc.SendActivated(event.Email, event.Name); err != nil {
			log.Printf("email_listener event=%s id=%s error=%v", domain.EventUserActivated, event.ID, err)
		}
	})
}
