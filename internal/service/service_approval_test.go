package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/store/mocks"
	"github.com/MKhiriev/orbit-sync/models"
)

// pendingFixture is a parked batch with one overdraft conflict and one
// unknown-item conflict, plus a clean ride-along transaction.
func pendingFixture() models.PendingSyncData {
	overdraft := models.Transaction{
		ID: "tx_over", Amount: 150.00, Type: models.TransactionExpense,
		AffectsBalance: true, AccountID: "acc_1", Details: "New tires",
	}
	unknownItem := models.Transaction{
		ID: "tx_item", Amount: 4.50, Type: models.TransactionExpense,
		AffectsBalance: true, AccountID: "acc_1", Details: "Groceries",
		Items: []models.TransactionItemRef{
			{Name: "Oat Milk", Quantity: 2, Price: 2.25},
			{Name: "Bread", Quantity: 1},
		},
	}
	clean := models.Transaction{
		ID: "tx_clean", Amount: 10.00, Type: models.TransactionExpense,
		AffectsBalance: true, AccountID: "acc_1", Details: "Coffee",
	}

	return models.PendingSyncData{
		ID: "sync_1",
		Payload: models.SyncDataPayload{
			Transactions: []models.Transaction{overdraft, unknownItem, clean},
			DeviceName:   "Pixel 9",
		},
		Conflicts: []models.SyncConflict{
			{
				ConflictType:  models.InsufficientBalance("acc_1", "Checking", 100.00, 150.00),
				TransactionID: "tx_over",
			},
			{
				ConflictType:  models.UnknownItem("Oat Milk", nil),
				TransactionID: "tx_item",
			},
		},
		ReceivedAt: 1770000000000,
		DeviceName: "Pixel 9",
	}
}

func newApprovalFixture(t *testing.T, ledger *mocks.MockLedger) (ApprovalService, PendingQueue) {
	t.Helper()

	queue := NewPendingQueue()
	queue.Add(pendingFixture())
	return NewApprovalService(queue, ledger, logger.Nop()), queue
}

func TestApproval_UnknownSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, _ := newApprovalFixture(t, ledger)

	_, err := approval.Resolve(context.Background(), "sync_missing", true, nil)
	assert.ErrorIs(t, err, ErrSyncNotFound)
}

func TestApproval_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, queue := newApprovalFixture(t, ledger)

	result, err := approval.Resolve(context.Background(), "sync_1", false, nil)
	require.NoError(t, err)
	assert.False(t, result.Approved)
	assert.Zero(t, result.Merged)
	assert.Equal(t, 3, result.Skipped)
	assert.Zero(t, queue.Len(), "rejected sync leaves the queue")
}

func TestApproval_IncompleteResolutions(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, queue := newApprovalFixture(t, ledger)

	resolutions := map[string]models.ConflictResolution{
		"tx_over": models.SkipTransaction(),
		// tx_item left unresolved.
	}

	_, err := approval.Resolve(context.Background(), "sync_1", true, resolutions)
	assert.ErrorIs(t, err, ErrIncompleteResolution)
	assert.Equal(t, 1, queue.Len(), "batch stays queued for another attempt")
}

func TestApproval_InvalidResolution(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, _ := newApprovalFixture(t, ledger)

	resolutions := map[string]models.ConflictResolution{
		"tx_over": {Type: models.ResolutionAdjustAmount}, // missing newAmount
		"tx_item": models.MapItem("itm_1"),
	}

	_, err := approval.Resolve(context.Background(), "sync_1", true, resolutions)
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestApproval_ApproveRewritesBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, queue := newApprovalFixture(t, ledger)

	resolutions := map[string]models.ConflictResolution{
		"tx_over": models.AdjustAmount(90.00),
		"tx_item": models.MapItem("itm_1"),
	}

	var applied models.MergePlan
	ledger.EXPECT().
		ApplyMerge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, plan models.MergePlan) error {
			applied = plan
			return nil
		})

	result, err := approval.Resolve(context.Background(), "sync_1", true, resolutions)
	require.NoError(t, err)
	assert.True(t, result.Approved)
	assert.Equal(t, 3, result.Merged)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.ItemsCreated)
	assert.Zero(t, queue.Len())

	require.Len(t, applied.Transactions, 3)
	assert.Equal(t, 90.00, applied.Transactions[0].Amount, "adjusted amount replaces the original")

	rebound := applied.Transactions[1]
	assert.Equal(t, "itm_1", rebound.Items[0].ItemID, "unknown item rebound to the mapped id")
	assert.Empty(t, rebound.Items[1].ItemID, "known item ref untouched")

	assert.Equal(t, "tx_clean", applied.Transactions[2].ID)
	assert.Empty(t, applied.NewItems)
}

func TestApproval_SkipDropsTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, _ := newApprovalFixture(t, ledger)

	resolutions := map[string]models.ConflictResolution{
		"tx_over": models.SkipTransaction(),
		"tx_item": models.SkipTransaction(),
	}

	var applied models.MergePlan
	ledger.EXPECT().
		ApplyMerge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, plan models.MergePlan) error {
			applied = plan
			return nil
		})

	result, err := approval.Resolve(context.Background(), "sync_1", true, resolutions)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Merged)
	assert.Equal(t, 2, result.Skipped)

	require.Len(t, applied.Transactions, 1)
	assert.Equal(t, "tx_clean", applied.Transactions[0].ID)
}

func TestApproval_CreateNewItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, _ := newApprovalFixture(t, ledger)

	resolutions := map[string]models.ConflictResolution{
		"tx_over": models.SkipTransaction(),
		"tx_item": models.CreateNewItem(),
	}

	var applied models.MergePlan
	ledger.EXPECT().
		ApplyMerge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, plan models.MergePlan) error {
			applied = plan
			return nil
		})

	result, err := approval.Resolve(context.Background(), "sync_1", true, resolutions)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsCreated)

	require.Len(t, applied.NewItems, 1)
	created := applied.NewItems[0]
	assert.Equal(t, "Oat Milk", created.Name)
	assert.NotEmpty(t, created.ID)

	require.Len(t, applied.Transactions, 2)
	assert.Equal(t, created.ID, applied.Transactions[0].Items[0].ItemID)
}

func TestApproval_CreateNewItemDedupesByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)

	first := models.Transaction{
		ID: "tx_a", Amount: 2.25, Type: models.TransactionExpense, AccountID: "acc_1",
		Items: []models.TransactionItemRef{{Name: "Oat Milk"}},
	}
	second := models.Transaction{
		ID: "tx_b", Amount: 4.50, Type: models.TransactionExpense, AccountID: "acc_1",
		Items: []models.TransactionItemRef{{Name: "oat milk"}},
	}

	queue := NewPendingQueue()
	queue.Add(models.PendingSyncData{
		ID:      "sync_2",
		Payload: models.SyncDataPayload{Transactions: []models.Transaction{first, second}},
		Conflicts: []models.SyncConflict{
			{ConflictType: models.UnknownItem("Oat Milk", nil), TransactionID: "tx_a"},
			{ConflictType: models.UnknownItem("oat milk", nil), TransactionID: "tx_b"},
		},
	})
	approval := NewApprovalService(queue, ledger, logger.Nop())

	resolutions := map[string]models.ConflictResolution{
		"tx_a": models.CreateNewItem(),
		"tx_b": models.CreateNewItem(),
	}

	var applied models.MergePlan
	ledger.EXPECT().
		ApplyMerge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, plan models.MergePlan) error {
			applied = plan
			return nil
		})

	result, err := approval.Resolve(context.Background(), "sync_2", true, resolutions)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsCreated, "same item name differing only in case creates one catalog entry")

	require.Len(t, applied.NewItems, 1)
	require.Len(t, applied.Transactions, 2)
	assert.Equal(t, applied.NewItems[0].ID, applied.Transactions[0].Items[0].ItemID)
	assert.Equal(t, applied.NewItems[0].ID, applied.Transactions[1].Items[0].ItemID)
}

func TestApproval_MergeFailureKeepsBatchQueued(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, queue := newApprovalFixture(t, ledger)

	resolutions := map[string]models.ConflictResolution{
		"tx_over": models.SkipTransaction(),
		"tx_item": models.SkipTransaction(),
	}

	ledger.EXPECT().ApplyMerge(gomock.Any(), gomock.Any()).Return(assert.AnError)

	_, err := approval.Resolve(context.Background(), "sync_1", true, resolutions)
	require.Error(t, err)
	assert.Equal(t, 1, queue.Len(), "failed merge must not drop the batch")
}

func TestApproval_ConcurrentResolveSerialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	approval, queue := newApprovalFixture(t, ledger)

	resolutions := map[string]models.ConflictResolution{
		"tx_over": models.SkipTransaction(),
		"tx_item": models.SkipTransaction(),
	}

	merging := make(chan struct{})
	release := make(chan struct{})
	ledger.EXPECT().
		ApplyMerge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.MergePlan) error {
			close(merging)
			<-release
			return nil
		})

	firstErr := make(chan error, 1)
	go func() {
		_, err := approval.Resolve(context.Background(), "sync_1", true, resolutions)
		firstErr <- err
	}()

	// Second resolve of the same sync arrives mid-merge and must wait for
	// the first to finish rather than re-reading the queue.
	<-merging
	secondErr := make(chan error, 1)
	go func() {
		_, err := approval.Resolve(context.Background(), "sync_1", true, resolutions)
		secondErr <- err
	}()
	close(release)

	require.NoError(t, <-firstErr)
	assert.ErrorIs(t, <-secondErr, ErrSyncNotFound)
	assert.Zero(t, queue.Len())
}
