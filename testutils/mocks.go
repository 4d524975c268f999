package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tech-arch1tect/cadence/services/mail"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) bool {
	args := m.Called(ctx, msg)
	return args.Bool(0)
}

// RecordingMailer accepts every message and keeps it for inspection.
type RecordingMailer struct {
	Fail     bool
	Messages []mail.Message
}

func (r *RecordingMailer) Send(_ context.Context, msg mail.Message) bool {
	r.Messages = append(r.Messages, msg)
	return !r.Fail
}

func (r *RecordingMailer) Last() (mail.Message, bool) {
	if len(r.Messages) == 0 {
		return mail.Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}
