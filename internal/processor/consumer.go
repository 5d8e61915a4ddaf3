package processor

import (
	"context"
	"encoding/json"

	"resume-insights/internal/storage"
)

// TaskHandler 返回供 RabbitMQ 消费者使用的处理函数。
// 无法解码的消息直接拒绝，不会重新入队
func (s *AnalysisService) TaskHandler() storage.ConsumeHandler {
	return func(ctx context.Context, body []byte) error {
		var msg storage.AnalysisTaskMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			s.logger.Error().Err(err).Int("body_size", len(body)).Msg("无法解析分析任务消息")
			return newError("decode_task", ErrInvalidParams, err.Error())
		}
		return s.HandleTask(ctx, &msg)
	}
}
