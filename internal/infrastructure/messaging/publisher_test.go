package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/tpa-claims/internal/application/dispatcher"
	"github.com/garyjia/tpa-claims/internal/domain/event"
)

type mockChannel struct {
	QueueDeclareFunc func(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishFunc      func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	closed           bool
}

func (m *mockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if m.QueueDeclareFunc != nil {
		return m.QueueDeclareFunc(name, durable, autoDelete, exclusive, noWait, args)
	}
	return amqp.Queue{Name: name}, nil
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, exchange, key, mandatory, immediate, msg)
	}
	return nil
}

func (m *mockChannel) Close() error {
	m.closed = true
	return nil
}

type mockConn struct {
	closed bool
}

func (m *mockConn) Close() error {
	m.closed = true
	return nil
}

func TestNewPublisher_DeclaresDurableQueue(t *testing.T) {
	var declared string
	var durable bool
	ch := &mockChannel{
		QueueDeclareFunc: func(name string, d, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
			declared, durable = name, d
			return amqp.Queue{Name: name}, nil
		},
	}

	p, err := newPublisher(ch, nil, "", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultQueue, p.queue)
	assert.Equal(t, DefaultQueue, declared)
	assert.True(t, durable)
}

func TestNewPublisher_DeclareFailure(t *testing.T) {
	ch := &mockChannel{
		QueueDeclareFunc: func(string, bool, bool, bool, bool, amqp.Table) (amqp.Queue, error) {
			return amqp.Queue{}, errors.New("access refused")
		},
	}

	_, err := newPublisher(ch, nil, "claims", zap.NewNop())
	assert.ErrorContains(t, err, "failed to declare queue")
}

func TestPublish_SendsPersistentJSON(t *testing.T) {
	var key string
	var msg amqp.Publishing
	ch := &mockChannel{
		PublishFunc: func(_ context.Context, exchange, k string, _, _ bool, m amqp.Publishing) error {
			assert.Empty(t, exchange)
			key, msg = k, m
			return nil
		},
	}
	p, err := newPublisher(ch, nil, "claims", zap.NewNop())
	require.NoError(t, err)

	evt := event.NewEvent(event.TypeClaimApproved, "claim-1", map[string]interface{}{"approved_amount": "800.00"})
	require.NoError(t, p.Publish(context.Background(), evt))

	assert.Equal(t, "claims", key)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, evt.ID, msg.MessageId)
	assert.Equal(t, "claim.approved", msg.Type)

	var decoded event.Event
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "claim-1", decoded.ClaimID)
	assert.Equal(t, "800.00", decoded.GetPayloadString("approved_amount"))

	published, failed := p.Stats()
	assert.Equal(t, int64(1), published)
	assert.Zero(t, failed)
}

func TestPublish_BrokerFailureIsCounted(t *testing.T) {
	ch := &mockChannel{
		PublishFunc: func(context.Context, string, string, bool, bool, amqp.Publishing) error {
			return amqp.ErrClosed
		},
	}
	p, err := newPublisher(ch, nil, "claims", zap.NewNop())
	require.NoError(t, err)

	err = p.Publish(context.Background(), event.NewEvent(event.TypeClaimSubmitted, "claim-1", nil))
	assert.ErrorIs(t, err, amqp.ErrClosed)

	_, failed := p.Stats()
	assert.Equal(t, int64(1), failed)
}

func TestHandler_ReceivesEveryDispatchedEvent(t *testing.T) {
	var types []string
	ch := &mockChannel{
		PublishFunc: func(_ context.Context, _, _ string, _, _ bool, m amqp.Publishing) error {
			types = append(types, m.Type)
			return nil
		},
	}
	p, err := newPublisher(ch, nil, "claims", zap.NewNop())
	require.NoError(t, err)

	d := dispatcher.NewDispatcher()
	d.SubscribeAll("rabbitmq", p.Handler())

	ctx := context.Background()
	require.NoError(t, d.Dispatch(ctx, event.NewEvent(event.TypeClaimCreated, "claim-1", nil)))
	require.NoError(t, d.Dispatch(ctx, event.NewEvent(event.TypeClaimSettled, "claim-1", nil)))

	assert.Equal(t, []string{"claim.created", "claim.settled"}, types)
}

func TestClose_ClosesChannelAndConnection(t *testing.T) {
	ch := &mockChannel{}
	conn := &mockConn{}
	p, err := newPublisher(ch, conn, "claims", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.True(t, conn.closed)
}
