package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "resume_insights:cache:abc", AnalysisCacheKey("abc"))
	assert.Equal(t, "resume_insights:submission:42", SubmissionKey("42"))
	assert.Equal(t, "resume_insights:lock:42", SubmissionLockKey("42"))
}

func TestStagingObjectKey(t *testing.T) {
	now := time.Date(2024, 3, 7, 23, 30, 0, 0, time.FixedZone("CST", 8*3600))
	assert.Equal(t, "staging/2024/03/07/sub-1.pdf", StagingObjectKey("sub-1", "My Resume.PDF", now))
	assert.Equal(t, "staging/2024/03/07/sub-2", StagingObjectKey("sub-2", "resume", now))
}

func TestSubmissionStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestAnalysisTaskMessageJSON(t *testing.T) {
	msg := AnalysisTaskMessage{
		SubmissionID:     "0190",
		ObjectKey:        "staging/2024/03/07/0190.pdf",
		OriginalFilename: "cv.pdf",
		Mode:             "ats",
		SubmittedAt:      time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"submission_id": "0190",
		"object_key": "staging/2024/03/07/0190.pdf",
		"original_filename": "cv.pdf",
		"mode": "ats",
		"submitted_at": "2024-03-07T00:00:00Z"
	}`, string(data))
}

func TestShouldSampleRedisOpEmptyKey(t *testing.T) {
	assert.False(t, shouldSampleRedisOp(""))
}

func TestNewStorageNothingEnabled(t *testing.T) {
	_, err := NewStorage(context.Background(), nil)
	assert.Error(t, err)
}

type recordingAck struct {
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *recordingAck) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *recordingAck) Nack(tag uint64, _ bool, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *recordingAck) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestDispatchAckNack(t *testing.T) {
	r := &RabbitMQ{logger: zerolog.Nop()}
	ack := &recordingAck{}
	deliver := func(tag uint64, redelivered bool, err error) {
		d := amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Redelivered: redelivered}
		r.dispatch(context.Background(), r.logger, d, func(context.Context, []byte) error { return err })
	}

	deliver(1, false, nil)
	deliver(2, false, errors.New("poison"))
	deliver(3, false, fmt.Errorf("redis down: %w", ErrRequeue))
	deliver(4, true, fmt.Errorf("redis down: %w", ErrRequeue))

	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2, 3, 4}, ack.nacked)
	// 只有首次投递且可重试的错误才重新入队
	assert.Equal(t, []bool{false, true, false}, ack.requeue)
}
