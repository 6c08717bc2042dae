package email

import (
	"errors"
	"io"
	"net/smtp"
	"testing"

	"github.com/Dan9191/deposit-service/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(send func(e *email.Email, addr string, auth smtp.Auth) error) *Sender {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewSender(&config.Config{
		SMTPHost:    "smtp.bank.local",
		SMTPPort:    "2525",
		SenderEmail: "deposits@bank.local",
	}, log)
	s.send = send
	return s
}

func TestSendRecommendation(t *testing.T) {
	var (
		sent     *email.Email
		sentAddr string
		sentAuth smtp.Auth
	)
	s := newTestSender(func(e *email.Email, addr string, auth smtp.Auth) error {
		sent, sentAddr, sentAuth = e, addr, auth
		return nil
	})

	err := s.SendRecommendation("client@mail.example", "Ideal option for you: A.\nLearn more: https://bank.example/a")
	require.NoError(t, err)

	assert.Equal(t, "smtp.bank.local:2525", sentAddr)
	assert.Nil(t, sentAuth)
	assert.Equal(t, []string{"client@mail.example"}, sent.To)
	assert.Equal(t, "deposits@bank.local", sent.From)
	assert.Contains(t, string(sent.Text), "Learn more: https://bank.example/a")
}

func TestSendRecommendation_Failure(t *testing.T) {
	s := newTestSender(func(*email.Email, string, smtp.Auth) error {
		return errors.New("connection refused")
	})

	err := s.SendRecommendation("client@mail.example", "text")
	assert.ErrorContains(t, err, "failed to send email")
}
