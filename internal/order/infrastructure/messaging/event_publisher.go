// Package messaging 订单领域事件的 Kafka 发布实现
package messaging

import (
	"context"
	"fmt"

	"github.com/lootea/commerce/internal/order/domain"
	"github.com/lootea/commerce/pkg/logger"
	"github.com/lootea/commerce/pkg/mq"
	"github.com/lootea/commerce/pkg/utils"
)

// KafkaEventPublisher domain.EventPublisher 的 Kafka 实现
// 发布在业务事务提交之后进行，失败只记录日志，不影响已落库的订单
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	idGen    *utils.SnowflakeID
}

// NewKafkaEventPublisher 创建事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer, idGen *utils.SnowflakeID) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, idGen: idGen}
}

// PublishOrderCreated 实现 domain.EventPublisher.PublishOrderCreated
func (p *KafkaEventPublisher) PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) {
	event.EventID = p.idGen.Generate()
	p.send(ctx, domain.TopicOrderCreated, fmt.Sprintf("%d", event.OrderID), event)
}

// PublishOrderCancelled 实现 domain.EventPublisher.PublishOrderCancelled
func (p *KafkaEventPublisher) PublishOrderCancelled(ctx context.Context, event domain.OrderCancelledEvent) {
	event.EventID = p.idGen.Generate()
	p.send(ctx, domain.TopicOrderCancelled, fmt.Sprintf("%d", event.OrderID), event)
}

// PublishPaymentStatusChanged 实现 domain.EventPublisher.PublishPaymentStatusChanged
func (p *KafkaEventPublisher) PublishPaymentStatusChanged(ctx context.Context, event domain.PaymentStatusChangedEvent) {
	event.EventID = p.idGen.Generate()
	p.send(ctx, domain.TopicPaymentStatusChanged, fmt.Sprintf("%d", event.OrderID), event)
}

func (p *KafkaEventPublisher) send(ctx context.Context, topic, key string, event interface{}) {
	if err := p.producer.SendMessage(ctx, topic, key, event); err != nil {
		logger.Error(ctx, "Failed to publish domain event",
			"topic", topic,
			"key", key,
			"error", err,
		)
	}
}
