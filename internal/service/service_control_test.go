package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/models"
)

func newControlFixture(t *testing.T) (ControlService, PendingQueue) {
	t.Helper()

	sessions := NewSessionService(testConfig(), logger.Nop())
	queue := NewPendingQueue()
	approval := NewApprovalService(queue, nil, logger.Nop())
	return NewControlService(sessions, queue, approval, logger.Nop()), queue
}

func TestControlStatus(t *testing.T) {
	control, queue := newControlFixture(t)

	status := control.Status()
	assert.False(t, status.Running)
	assert.Zero(t, status.ActiveSessions)
	assert.Zero(t, status.PendingApprovals)

	_, err := control.StartServer(context.Background(), 8090)
	require.NoError(t, err)
	queue.Add(models.PendingSyncData{ID: "sync_1"})

	status = control.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 1, status.ActiveSessions)
	assert.Equal(t, 1, status.PendingApprovals)
	assert.Equal(t, 8090, status.Port)
	assert.Positive(t, control.RemainingTime())

	require.NoError(t, control.StopServer(context.Background()))
	status = control.Status()
	assert.False(t, status.Running)
	assert.Zero(t, control.RemainingTime())

	// Pending approvals outlive the session that produced them.
	assert.Equal(t, 1, status.PendingApprovals)
	assert.Len(t, control.ListPending(), 1)
}

func TestControlApprove_Delegates(t *testing.T) {
	control, _ := newControlFixture(t)

	_, err := control.Approve(context.Background(), "sync_missing", true, nil)
	assert.ErrorIs(t, err, ErrSyncNotFound)
}

func TestControlRemainingTime_CountsDown(t *testing.T) {
	control, _ := newControlFixture(t)

	_, err := control.StartServer(context.Background(), 8090)
	require.NoError(t, err)

	remaining := control.RemainingTime()
	assert.LessOrEqual(t, remaining, 15*time.Minute)
	assert.Greater(t, remaining, 14*time.Minute)
}
