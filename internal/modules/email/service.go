package email

import (
	"net/mail"
	"strings"

	"userhub/internal/config"
	"userhub/internal/domain"
)

// Service renders and sends the account lifecycle mails. Welcome and
// activation notifications can each be switched off by configuration.
type Service struct {
	mailer         Mailer
	activationPath string
	sendWelcome    bool
	sendActivation bool
}

func NewService(mailer Mailer, cfg *config.Config) *Service {
	return &Service{
		mailer:         mailer,
		activationPath: cfg.APIActivationPath,
		sendWelcome:    cfg.MailSendWelcome,
		sendActivation: cfg.MailSendActivation,
	}
}

// SendWelcome mails the activation link to a freshly created account.
func (s *Service) SendWelcome(to, name, id, activationToken string) error {
	if !s.sendWelcome {
		return nil
	}
	link := s.activationLink(id, activationToken)
	body := "Hello " + name + ",\n\n" +
		"Your account has been created. Activate it by visiting:\n\n" +
		link + "\n"
	return s.mailer.Send(to, "Welcome", body)
}

// SendActivated confirms a completed activation.
func (s *Service) SendActivated(to, name string) error {
	if !s.sendActivation {
		return nil
	}
	body := "Hello " + name + ",\n\nYour account is now active.\n"
	return s.mailer.Send(to, "Account activated", body)
}

// SendTest delivers a short probe message; used by the admin test
// endpoint to verify relay configuration.
func (s *Service) SendTest(to string) error {
	if _, err := mail.ParseAddress(to); err != nil {
		return &domain.InvalidDataError{Message: "invalid email address"}
	}
	return s.mailer.Send(to, "Test", "This is a test message.\n")
}

// activationLink expands the configured URL template by substituting the
// :id and :activationToken placeholders.
func (s *Service) activationLink(id, activationToken string) string {
	link := strings.ReplaceAll(s.activationPath, ":id", id)
	return strings.ReplaceAll(link, ":activationToken", activationToken)
}
