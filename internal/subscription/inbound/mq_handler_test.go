package inbound

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/goroutine"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/messaging"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/shared/event"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
)

type fakeMessage struct {
	body    []byte
	headers map[string]string
}

func (m *fakeMessage) Body() []byte               { return m.body }
func (m *fakeMessage) Headers() map[string]string { return m.headers }
func (m *fakeMessage) ID() string                 { return "1" }
func (m *fakeMessage) Topic() string              { return event.SubscriptionConfirmedDestination }
func (m *fakeMessage) Timestamp() time.Time       { return time.Time{} }
func (m *fakeMessage) Ack(context.Context) error  { return nil }
func (m *fakeMessage) Nack(context.Context) error { return nil }

type fixedUUID string

func (f fixedUUID) Generate() string { return string(f) }

func newTestMQHandler(t *testing.T, uc ucConsumer) *MQHandler {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	return &MQHandler{uc: uc, uuid: fixedUUID("generated-cid"), validator: v, ins: instrument.NewNoop()}
}

const validPayload = `{"subscription_id":"0199a3f0-7c2e-7b61-9a0e-3c6f0d1b2a44","email":"ursula_le_guin@gmail.com","name":"le guin"}`

func TestMQHandler_SubscriptionConfirmedWelcome(t *testing.T) {
	wantInput := usecase.ConsumeSubscriptionConfirmedInput{
		SubscriptionID: "0199a3f0-7c2e-7b61-9a0e-3c6f0d1b2a44",
		Email:          "ursula_le_guin@gmail.com",
		Name:           "le guin",
	}

	t.Run("restores correlation id", func(t *testing.T) {
		uc := new(mockUsecase)
		uc.On("ConsumeSubscriptionConfirmed", mock.MatchedBy(func(ctx context.Context) bool {
			return instrument.GetCorrelationID(ctx) == "cid-from-publisher"
		}), wantInput).Return(nil).Once()

		err := newTestMQHandler(t, uc).SubscriptionConfirmedWelcome(context.Background(), &fakeMessage{
			body:    []byte(validPayload),
			headers: map[string]string{"cID": "cid-from-publisher"},
		})

		require.NoError(t, err)
		uc.AssertExpectations(t)
	})

	t.Run("generates correlation id when absent", func(t *testing.T) {
		uc := new(mockUsecase)
		uc.On("ConsumeSubscriptionConfirmed", mock.MatchedBy(func(ctx context.Context) bool {
			return instrument.GetCorrelationID(ctx) == "generated-cid"
		}), wantInput).Return(nil).Once()

		err := newTestMQHandler(t, uc).SubscriptionConfirmedWelcome(context.Background(), &fakeMessage{body: []byte(validPayload)})

		require.NoError(t, err)
		uc.AssertExpectations(t)
	})

	t.Run("usecase error nacks", func(t *testing.T) {
		uc := new(mockUsecase)
		uc.On("ConsumeSubscriptionConfirmed", mock.Anything, wantInput).Return(errors.New("sendgrid down")).Once()

		err := newTestMQHandler(t, uc).SubscriptionConfirmedWelcome(context.Background(), &fakeMessage{body: []byte(validPayload)})

		assert.EqualError(t, err, "sendgrid down")
	})

	t.Run("bad payloads are dropped", func(t *testing.T) {
		for _, body := range []string{
			`not json`,
			`{}`,
			`{"subscription_id":"nope","email":"ursula_le_guin@gmail.com","name":"le guin"}`,
			`{"subscription_id":"0199a3f0-7c2e-7b61-9a0e-3c6f0d1b2a44","email":"nope","name":"le guin"}`,
		} {
			uc := new(mockUsecase)

			err := newTestMQHandler(t, uc).SubscriptionConfirmedWelcome(context.Background(), &fakeMessage{body: []byte(body)})

			assert.NoError(t, err, body)
			uc.AssertNotCalled(t, "ConsumeSubscriptionConfirmed", mock.Anything, mock.Anything)
		}
	})
}

type fakeConsumer struct {
	mu      sync.Mutex
	sources []string
	started chan struct{}
}

func (f *fakeConsumer) Consume(ctx context.Context, source string, _ messaging.Handler, _ ...messaging.ConsumeOption) error {
	f.mu.Lock()
	f.sources = append(f.sources, source)
	f.mu.Unlock()
	f.started <- struct{}{}

	<-ctx.Done()
	return nil
}

func TestRegisterMQConsumer(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	t.Run("starts enabled consumers", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte(
			"modules:\n  subscription:\n    consumer_names: [subscription_confirmed_welcome]\n"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		routine := goroutine.NewManager(2)
		fc := &fakeConsumer{started: make(chan struct{}, 1)}

		RegisterMQConsumer(ctx, cfg, routine, fc, fixedUUID("cid"), v, new(mockUsecase), instrument.NewNoop())

		select {
		case <-fc.started:
		case <-time.After(5 * time.Second):
			t.Fatal("consumer did not start")
		}
		cancel()
		require.NoError(t, routine.Wait())

		assert.Equal(t, []string{event.SubscriptionConfirmedDestination}, fc.sources)
	})

	t.Run("disabled consumers are skipped", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  subscription:\n    consumer_names: []\n"))
		require.NoError(t, err)

		routine := goroutine.NewManager(2)
		fc := &fakeConsumer{started: make(chan struct{}, 1)}

		RegisterMQConsumer(context.Background(), cfg, routine, fc, fixedUUID("cid"), v, new(mockUsecase), instrument.NewNoop())
		require.NoError(t, routine.Wait())

		assert.Empty(t, fc.sources)
	})
}
