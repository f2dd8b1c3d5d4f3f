package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifier/pkg/email"
)

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Report ready",
		BodyHTML: "<p>Your report is ready.</p>",
	}

	tests := []struct {
		name    string
		mutate  func(*email.SendEmailParams)
		wantErr bool
	}{
		{
			name:   "valid params",
			mutate: func(p *email.SendEmailParams) {},
		},
		{
			name:    "missing recipient",
			mutate:  func(p *email.SendEmailParams) { p.SendTo = "" },
			wantErr: true,
		},
		{
			name:    "malformed recipient",
			mutate:  func(p *email.SendEmailParams) { p.SendTo = "not-an-email" },
			wantErr: true,
		},
		{
			name:    "missing subject",
			mutate:  func(p *email.SendEmailParams) { p.Subject = "" },
			wantErr: true,
		},
		{
			name:    "missing body",
			mutate:  func(p *email.SendEmailParams) { p.BodyHTML = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := valid
			tt.mutate(&params)

			err := params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPostmarkClient_ConfigValidation(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "noreply@example.com",
		ReplyToEmail:         "support@example.com",
	}

	tests := []struct {
		name   string
		mutate func(*email.Config)
	}{
		{name: "missing server token", mutate: func(c *email.Config) { c.PostmarkServerToken = "" }},
		{name: "missing account token", mutate: func(c *email.Config) { c.PostmarkAccountToken = "" }},
		{name: "missing sender", mutate: func(c *email.Config) { c.SenderEmail = "" }},
		{name: "malformed sender", mutate: func(c *email.Config) { c.SenderEmail = "nope" }},
		{name: "missing reply-to", mutate: func(c *email.Config) { c.ReplyToEmail = "" }},
		{name: "malformed reply-to", mutate: func(c *email.Config) { c.ReplyToEmail = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)

			_, err := email.NewPostmarkClient(cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewPostmarkClient(valid)
		assert.NoError(t, err)
		assert.NotNil(t, sender)
	})
}
