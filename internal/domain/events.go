package domain

// Event names published on the in-process bus. Listeners are registered by
// name; payload types below match one-to-one.
const (
	EventUserCreated    = "user.created"
	EventUserRegistered = "user.registered"
	EventUserAdded      = "user.added"
	EventUserDeleted    = "user.deleted"
	EventUserActivated  = "user.activated"
	EventUserDisabled   = "user.disabled"
	EventUserEnabled    = "user.enabled"

	EventAuthActivated = "auth.activated"
)

// UserAddedEvent carries the raw registration secrets so the auth listener
// can create the credential record. It must never be serialized outward.
type UserAddedEvent struct {
	Actor           UserLogged
	ID              string
	Password        string
	ActivationToken string
}

// UserCreatedEvent is published when an admin creates an account; the email
// listener builds the welcome mail from it.
type UserCreatedEvent struct {
	Actor           UserLogged
	ID              string
	Name            string
	Last            string
	Email           string
	Roles           RoleList
	ActivationToken string
}

// UserRegisteredEvent is the self-registration counterpart of
// UserCreatedEvent.
type UserRegisteredEvent struct {
	Actor           UserLogged
	ID              string
	Name            string
	Last            string
	Email           string
	Roles           RoleList
	ActivationToken string
}

// UserActivatedEvent is the enriched projection emitted by the user module
// after an account activation (triggered by AuthActivatedEvent).
type UserActivatedEvent struct {
	Actor UserLogged
	ID    string
	Name  string
	Last  string
	Email string
	Roles RoleList
}

type UserDeletedEvent struct {
	Actor UserLogged
	ID    string
}

type UserEnabledEvent struct {
	Actor UserLogged
	ID    string
}

type UserDisabledEvent struct {
	Actor UserLogged
	ID    string
}

// AuthActivatedEvent carries the minimal projection (id only); the user
// module enriches it downstream.
type AuthActivatedEvent struct {
	Actor UserLogged
	ID    string
}
