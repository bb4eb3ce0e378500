package email

import (
	"testing"

	"userhub/internal/config"
	"userhub/internal/domain"

	"github.com/stretchr/testify/assert"
)

type fakeMailer struct {
	to      []string
	subject []string
	body    []string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.to = append(f.to, to)
	f.subject = append(f.subject, subject)
	f.body = append(f.body, body)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		APIActivationPath:  "http://localhost:8080/api/v1/auth/:id/activate?activationToken=:activationToken",
		MailSendWelcome:    true,
		MailSendActivation: true,
	}
}

func TestSendWelcome_ExpandsActivationLink(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, testConfig())

	err := svc.SendWelcome("john@example.com", "John", "jdoe", "tok123")

	assert.NoError(t, err)
	assert.Equal(t, []string{"john@example.com"}, mailer.to)
	assert.Contains(t, mailer.body[0], "http://localhost:8080/api/v1/auth/jdoe/activate?activationToken=tok123")
}

func TestSendWelcome_DisabledByFlag(t *testing.T) {
	mailer := &fakeMailer{}
	cfg := testConfig()
	cfg.MailSendWelcome = false
	svc := NewService(mailer, cfg)

	assert.NoError(t, svc.SendWelcome("john@example.com", "John", "jdoe", "tok123"))
	assert.Empty(t, mailer.to)
}

func TestSendActivated_DisabledByFlag(t *testing.T) {
	mailer := &fakeMailer{}
	cfg := testConfig()
	cfg.MailSendActivation = false
	svc := NewService(mailer, cfg)

	assert.NoError(t, svc.SendActivated("john@example.com", "John"))
	assert.Empty(t, mailer.to)
}

func TestSendActivated(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, testConfig())

	assert.NoError(t, svc.SendActivated("john@example.com", "John"))
	assert.Equal(t, "Account activated", mailer.subject[0])
}

func TestSendTest_InvalidAddress(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, testConfig())

	err := svc.SendTest("not an address")

	var invalidErr *domain.InvalidDataError
	assert.ErrorAs(t, err, &invalidErr)
	assert.Empty(t, mailer.to)
}

func TestSendTest_ValidAddress(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, testConfig())

	assert.NoError(t, svc.SendTest("probe@example.com"))
	assert.Equal(t, []string{"probe@example.com"}, mailer.to)
}
