package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/GoArmGo/FoodDiary/internal/logger"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ackRecorder struct {
	acked    int
	nacked   int
	requeued bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, ev any, redelivered bool) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body, Redelivered: redelivered}
}

func TestHandleDelivery_Ack(t *testing.T) {
	ev := payloads.NewDiaryEvent(payloads.EventFoodCreated, map[string]string{"name": "apple"}).WithFood(3)
	ack := &ackRecorder{}

	var got payloads.DiaryEvent
	handleDelivery(context.Background(), delivery(t, ack, ev, false), func(_ context.Context, e payloads.DiaryEvent) error {
		got = e
		return nil
	}, logger.Discard())

	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
	assert.Equal(t, ev.ID, got.ID)
	require.NotNil(t, got.FoodID)
	assert.Equal(t, uint(3), *got.FoodID)
	assert.JSONEq(t, `{"name":"apple"}`, string(got.Payload))
}

func TestHandleDelivery_MalformedIsDropped(t *testing.T) {
	ack := &ackRecorder{}
	called := false
	handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")}, func(context.Context, payloads.DiaryEvent) error {
		called = true
		return nil
	}, logger.Discard())

	assert.False(t, called)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestHandleDelivery_RequeueOnce(t *testing.T) {
	ev := payloads.NewDiaryEvent(payloads.EventDayCreated, nil)
	failing := func(context.Context, payloads.DiaryEvent) error { return errors.New("db down") }

	first := &ackRecorder{}
	handleDelivery(context.Background(), delivery(t, first, ev, false), failing, logger.Discard())
	assert.Equal(t, 1, first.nacked)
	assert.True(t, first.requeued)

	second := &ackRecorder{}
	handleDelivery(context.Background(), delivery(t, second, ev, true), failing, logger.Discard())
	assert.Equal(t, 1, second.nacked)
	assert.False(t, second.requeued)
}
