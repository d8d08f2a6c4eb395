package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/config"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// TaskQueue 异步改写任务的投递与消费。
type TaskQueue interface {
	// PublishImproveTask 投递原位改写任务
	PublishImproveTask(ctx context.Context, task types.ImproveTask) error

	// ConsumeImproveTasks 阻塞消费改写任务，handler返回错误时消息重回队列一次
	ConsumeImproveTasks(ctx context.Context, handler func(context.Context, types.ImproveTask) error) error

	// Close 关闭连接
	Close() error
}

// 确保RabbitMQ实现了TaskQueue接口
var _ TaskQueue = (*RabbitMQ)(nil)

// RabbitMQ 提供消息队列功能
type RabbitMQ struct {
	conn   *amqp.Connection
	cfg    *config.RabbitMQConfig
	logger zerolog.Logger
}

// NewRabbitMQ 创建RabbitMQ客户端并声明改写任务队列。
func NewRabbitMQ(cfg *config.RabbitMQConfig, logger *zerolog.Logger) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器: %w", err)
	}

	r := &RabbitMQ{conn: conn, cfg: cfg, logger: l}
	if err := r.ensureQueue(cfg.ImproveQueue); err != nil {
		conn.Close()
		return nil, err
	}

	l.Info().Str("queue", cfg.ImproveQueue).Msg("RabbitMQ连接建立完成")
	return r, nil
}

// ensureQueue 声明持久化队列，幂等。
func (r *RabbitMQ) ensureQueue(queueName string) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("创建RabbitMQ通道失败: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		queueName,
		true,  // 持久化
		false, // 自动删除
		false, // 排他
		false, // 非阻塞
		nil,
	)
	if err != nil {
		return fmt.Errorf("声明队列 %s 失败: %w", queueName, err)
	}
	return nil
}

// PublishImproveTask 把改写任务以持久化JSON消息投递到默认交换机。
func (r *RabbitMQ) PublishImproveTask(ctx context.Context, task types.ImproveTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("序列化改写任务失败: %w", err)
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("创建RabbitMQ通道失败: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		"",                 // 默认交换机
		r.cfg.ImproveQueue, // routing key = 队列名
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    task.TaskID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("发布改写任务失败: %w", err)
	}

	r.logger.Debug().Str("task_id", task.TaskID).Msg("改写任务已投递")
	return nil
}

// ConsumeImproveTasks 阻塞消费改写任务直到上下文取消。
// 处理成功ack；失败时首次requeue重试，再次失败丢弃(防止毒消息循环)。
func (r *RabbitMQ) ConsumeImproveTasks(ctx context.Context, handler func(context.Context, types.ImproveTask) error) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("创建RabbitMQ通道失败: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(r.cfg.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	deliveries, err := ch.Consume(
		r.cfg.ImproveQueue,
		"",    // consumer tag自动生成
		false, // 手动ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("订阅队列失败: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("消费通道已关闭")
			}

			var task types.ImproveTask
			if err := json.Unmarshal(d.Body, &task); err != nil {
				r.logger.Error().Err(err).Msg("改写任务消息反序列化失败，丢弃")
				d.Nack(false, false)
				continue
			}

			if err := handler(ctx, task); err != nil {
				r.logger.Error().Err(err).Str("task_id", task.TaskID).Msg("改写任务处理失败")
				d.Nack(false, !d.Redelivered)
				continue
			}
			d.Ack(false)
		}
	}
}

// Close 关闭连接
func (r *RabbitMQ) Close() error {
	return r.conn.Close()
}
