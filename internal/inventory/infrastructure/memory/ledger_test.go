package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/lootea/commerce/internal/inventory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []domain.LowStockAlert
}

func (n *recordingNotifier) NotifyLowStock(ctx context.Context, alert domain.LowStockAlert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
}

func TestReserveAndRelease(t *testing.T) {
	ledger := NewStockLedger(nil)
	ledger.Seed(1, "Tapioka perly", 10, 3)
	ctx := context.Background()

	require.NoError(t, ledger.Reserve(ctx, 1, 4))
	qty, ok := ledger.Quantity(1)
	require.True(t, ok)
	assert.Equal(t, 6, qty)

	require.NoError(t, ledger.Release(ctx, 1, 4))
	qty, _ = ledger.Quantity(1)
	assert.Equal(t, 10, qty)
}

func TestReserveInsufficientStock(t *testing.T) {
	ledger := NewStockLedger(nil)
	ledger.Seed(1, "Tapioka perly", 3, 1)

	err := ledger.Reserve(context.Background(), 1, 5)
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(1), stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	// 失败的预留不得改变库存
	qty, _ := ledger.Quantity(1)
	assert.Equal(t, 3, qty)
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	ledger := NewStockLedger(nil)
	ledger.Seed(1, "Tapioka perly", 3, 1)

	assert.ErrorIs(t, ledger.Reserve(context.Background(), 1, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, ledger.Reserve(context.Background(), 1, -2), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, ledger.Release(context.Background(), 1, 0), domain.ErrInvalidQuantity)
}

func TestReserveUnknownProduct(t *testing.T) {
	ledger := NewStockLedger(nil)
	assert.ErrorIs(t, ledger.Reserve(context.Background(), 42, 1), domain.ErrProductNotTracked)
}

// 并发预留：库存 S、每次预留 q、并发 N 且 N*q > S 时，
// 恰好 floor(S/q) 次成功，其余以库存不足失败，最终库存 = S - floor(S/q)*q
func TestConcurrentReservations(t *testing.T) {
	const (
		stock      = 10
		perReserve = 3
		workers    = 8
	)

	ledger := NewStockLedger(nil)
	ledger.Seed(1, "Tapioka perly", stock, 0)

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- ledger.Reserve(context.Background(), 1, perReserve)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, failed := 0, 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, domain.IsInsufficientStock(err))
			failed++
		}
	}

	wantSuccess := stock / perReserve
	assert.Equal(t, wantSuccess, succeeded)
	assert.Equal(t, workers-wantSuccess, failed)

	qty, _ := ledger.Quantity(1)
	assert.Equal(t, stock-wantSuccess*perReserve, qty)
	assert.GreaterOrEqual(t, qty, 0)
}

func TestLowStockNotification(t *testing.T) {
	notifier := &recordingNotifier{}
	ledger := NewStockLedger(notifier)
	ledger.Seed(1, "Tapioka perly", 10, 5)
	ctx := context.Background()

	// 10 -> 7：未跨过阈值
	require.NoError(t, ledger.Reserve(ctx, 1, 3))
	assert.Empty(t, notifier.alerts)

	// 7 -> 4：跨过阈值，触发一次告警
	require.NoError(t, ledger.Reserve(ctx, 1, 3))
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, uint(1), notifier.alerts[0].ProductID)
	assert.Equal(t, 4, notifier.alerts[0].Quantity)
	assert.Equal(t, 5, notifier.alerts[0].Threshold)

	// 已处于低库存状态时不再重复告警
	require.NoError(t, ledger.Reserve(ctx, 1, 1))
	assert.Len(t, notifier.alerts, 1)
}
