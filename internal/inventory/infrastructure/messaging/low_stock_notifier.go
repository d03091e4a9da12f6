// Package messaging 将库存告警发布到 Kafka
package messaging

import (
	"context"
	"strconv"

	"github.com/lootea/commerce/internal/inventory/domain"
	"github.com/lootea/commerce/pkg/logger"
	"github.com/lootea/commerce/pkg/metrics"
	"github.com/lootea/commerce/pkg/mq"
)

// TopicStockLow 低库存告警主题
const TopicStockLow = "stock.low"

// KafkaLowStockNotifier domain.LowStockNotifier 的 Kafka 实现
type KafkaLowStockNotifier struct {
	producer *mq.KafkaProducer
	metrics  *metrics.Metrics
}

func NewKafkaLowStockNotifier(producer *mq.KafkaProducer, m *metrics.Metrics) *KafkaLowStockNotifier {
	return &KafkaLowStockNotifier{producer: producer, metrics: m}
}

// NotifyLowStock 发布告警事件；发布失败只记录日志，不影响库存预留
func (n *KafkaLowStockNotifier) NotifyLowStock(ctx context.Context, alert domain.LowStockAlert) {
	if n.metrics != nil {
		n.metrics.StockLowTotal.Inc()
	}

	key := strconv.FormatUint(uint64(alert.ProductID), 10)
	if err := n.producer.SendMessage(ctx, TopicStockLow, key, alert); err != nil {
		logger.Error(ctx, "Failed to publish low stock alert",
			"product_id", alert.ProductID,
			"error", err,
		)
	}
}
