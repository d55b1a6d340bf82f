package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jayambe/books/internal/numbering"
	payabledomain "github.com/jayambe/books/internal/payable/domain"
	"github.com/jayambe/books/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) payabledomain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&payabledomain.Payable{}, &numbering.DocumentSequence{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	authority := numbering.NewAuthority(numbering.Params{DB: conn, Log: zap.NewNop()})
	return NewService(ServiceParam{DB: conn, Log: zap.NewNop(), GenID: node, Numbering: authority})
}

func TestCreatePayableDefaults(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	payable, err := svc.Create(ctx, payabledomain.CreatePayableRequest{})
	require.NoError(t, err)

	assert.Equal(t, "JA-PAY-0001", payable.BillNumber)
	assert.Equal(t, "Supplier", payable.SupplierName)
	assert.Zero(t, payable.Amount)
	assert.Equal(t, payabledomain.StatusPending, payable.Status)
}

func TestCreatePayableCallerBillNumberSkipsSequence(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	custom, err := svc.Create(ctx, payabledomain.CreatePayableRequest{
		BillNumber:   "SUP-77",
		SupplierName: "Timber Mart",
		Amount:       1500,
		Status:       "scheduled",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUP-77", custom.BillNumber)
	assert.Equal(t, payabledomain.PayableStatus("scheduled"), custom.Status)

	// The explicit bill number must not consume the payable sequence.
	assigned, err := svc.Create(ctx, payabledomain.CreatePayableRequest{})
	require.NoError(t, err)
	assert.Equal(t, "JA-PAY-0001", assigned.BillNumber)
}

func TestListPayablesNewestFirst(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, payabledomain.CreatePayableRequest{SupplierName: "First"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Create(ctx, payabledomain.CreatePayableRequest{SupplierName: "Second"})
	require.NoError(t, err)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Second", listed[0].SupplierName)
	assert.Equal(t, "First", listed[1].SupplierName)
}
