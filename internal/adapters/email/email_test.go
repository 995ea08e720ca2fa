package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"campusconnect/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTemplateRenderer_Welcome(t *testing.T) {
	r := NewTemplateRenderer()
	subject, html, text, err := r.Render("welcome", &domain.WelcomeMessageEmailData{
		Email:      "ana@campus.edu",
		Name:       "Ana",
		Department: "CS",
	})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to CampusConnect, Ana!", subject)
	assert.Contains(t, html, "<strong>ana@campus.edu</strong>")
	assert.Contains(t, text, "events from CS")
}

func TestTemplateRenderer_RegistrationConfirmed_EscapesHTML(t *testing.T) {
	r := NewTemplateRenderer()
	subject, html, text, err := r.Render("registration_confirmed", &domain.RegistrationEmailData{
		Email:      "ana@campus.edu",
		EventTitle: "<b>AI Workshop</b>",
		EventDate:  "Mar 1, 2025 10:00 UTC",
	})
	require.NoError(t, err)
	assert.Equal(t, "You're registered: <b>AI Workshop</b>", subject)
	assert.Contains(t, html, "&lt;b&gt;AI Workshop&lt;/b&gt;")
	assert.Contains(t, text, "Hi there")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	require.Error(t, err)
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "events@campus.edu", "CampusConnect", testLogger)

	err := m.Send(context.Background(), "ana@campus.edu", "Hello", "<p>hi</p>", "")
	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "CampusConnect <events@campus.edu>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ana@campus.edu"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Nil(t, client.input.Message.Body.Text)
}

func TestSESMailer_Send_Error(t *testing.T) {
	m := newSESMailer(&fakeSES{err: errors.New("throttled")}, "events@campus.edu", "", testLogger)
	err := m.Send(context.Background(), "ana@campus.edu", "Hello", "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewMailer_Providers(t *testing.T) {
	_, ok := NewMailer(MailerConfig{Provider: "noop"}, testLogger).(*noopMailer)
	assert.True(t, ok)
	_, ok = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, testLogger).(*noopMailer)
	assert.True(t, ok)
	_, ok = NewMailer(MailerConfig{Provider: "ses", SES: SESConfig{Region: "us-east-1"}}, testLogger).(*sesMailer)
	assert.True(t, ok)
}
