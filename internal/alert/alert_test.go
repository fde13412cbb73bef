package alert

import (
	"bytes"
	"context"
	"errors"
	"testing"

	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

func testAlert(percentage float64) Alert {
	return Alert{
		To: "user@example.com",
		Status: model.BudgetStatus{
			Budget:     5000,
			Spent:      5000 * percentage / 100,
			Percentage: percentage,
		},
	}
}

func TestAlert_Subject(t *testing.T) {
	assert.Equal(t, "Budget Alert: 85.0% of Monthly Budget Used", testAlert(85).Subject())
}

func TestAlert_Body(t *testing.T) {
	t.Run("approaching limit", func(t *testing.T) {
		body := testAlert(85).Body()
		assert.Contains(t, body, "₹5000.00")
		assert.Contains(t, body, "₹4250.00")
		assert.Contains(t, body, "85.0%")
		assert.Contains(t, body, "approaching your budget limit")
	})

	t.Run("within budget", func(t *testing.T) {
		body := testAlert(40).Body()
		assert.Contains(t, body, "within budget")
	})
}

func TestStdoutSender(t *testing.T) {
	var buf bytes.Buffer
	sender := NewStdoutSender(&buf)

	require.NoError(t, sender.Send(context.Background(), testAlert(85)))
	assert.Contains(t, buf.String(), "To: user@example.com")
	assert.Contains(t, buf.String(), "Budget Alert: 85.0%")
	assert.Equal(t, "stdout", sender.Name())
}

func TestNewSMTPSender_Validation(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Port: 587, Username: "u"})
	assert.Error(t, err, "missing host")

	_, err = NewSMTPSender(SMTPConfig{Host: "smtp.gmail.com", Username: "u"})
	assert.Error(t, err, "missing port")

	_, err = NewSMTPSender(SMTPConfig{Host: "smtp.gmail.com", Port: 587})
	assert.Error(t, err, "missing username")

	sender, err := NewSMTPSender(SMTPConfig{Host: "smtp.gmail.com", Port: 587, Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "smtp", sender.Name())
}

type mockSESClient struct {
	input *sesv2.SendEmailInput
	err   error
}

func (m *mockSESClient) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

func TestSESSender_Send(t *testing.T) {
	mock := &mockSESClient{}
	sender := NewSESSenderWithClient("alerts@rupeeflow.example", mock)

	require.NoError(t, sender.Send(context.Background(), testAlert(85)))
	require.NotNil(t, mock.input)
	assert.Equal(t, "alerts@rupeeflow.example", *mock.input.FromEmailAddress)
	assert.Equal(t, []string{"user@example.com"}, mock.input.Destination.ToAddresses)
	assert.Contains(t, *mock.input.Content.Simple.Subject.Data, "85.0%")
}

func TestSESSender_SendError(t *testing.T) {
	mock := &mockSESClient{err: errors.New("throttled")}
	sender := NewSESSenderWithClient("alerts@rupeeflow.example", mock)

	err := sender.Send(context.Background(), testAlert(85))
	assert.Error(t, err)
}
