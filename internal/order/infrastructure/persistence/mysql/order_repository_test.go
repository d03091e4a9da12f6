package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/utils/tests"

	"github.com/lootea/commerce/pkg/db"
)

func newTestRepository(t *testing.T) (*OrderRepository, *gorm.DB) {
	t.Helper()
	gormDB, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return NewOrderRepository(&db.DB{DB: gormDB}), gormDB
}

func TestQueryDBLocksRowInsideTransaction(t *testing.T) {
	repo, gormDB := newTestRepository(t)

	// 事务内读取附加 FOR UPDATE，回调与取消并发改同一订单时在行锁上排队
	ctx := db.WithTx(context.Background(), gormDB)
	q := repo.queryDB(ctx)

	c, ok := q.Statement.Clauses["FOR"]
	require.True(t, ok)
	locking, ok := c.Expression.(clause.Locking)
	require.True(t, ok)
	assert.Equal(t, "UPDATE", locking.Strength)
}

func TestQueryDBPlainReadOutsideTransaction(t *testing.T) {
	repo, _ := newTestRepository(t)

	q := repo.queryDB(context.Background())

	_, ok := q.Statement.Clauses["FOR"]
	assert.False(t, ok)
}
