package service

import (
	"context"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/models"
)

// controlService is a thin facade over the session, queue and approval
// services for the host-side UI/CLI. It adds no policy of its own.
type controlService struct {
	sessions SessionService
	queue    PendingQueue
	approval ApprovalService
	log      *logger.Logger
}

func NewControlService(sessions SessionService, queue PendingQueue, approval ApprovalService, log *logger.Logger) ControlService {
	return &controlService{
		sessions: sessions,
		queue:    queue,
		approval: approval,
		log:      log.GetChildLogger("service", "control"),
	}
}

func (s *controlService) StartServer(ctx context.Context, port int) (models.StartServerResult, error) {
	return s.sessions.Start(ctx, port)
}

func (s *controlService) StopServer(ctx context.Context) error {
	return s.sessions.Stop(ctx)
}

func (s *controlService) Status() models.SyncStatus {
	session, ok := s.sessions.Current()
	running := ok && session.IsActive

	active := 0
	if running {
		active = 1
	}

	return models.SyncStatus{
		Running:          running,
		ActiveSessions:   active,
		PendingApprovals: s.queue.Len(),
		Port:             s.sessions.Port(),
	}
}

func (s *controlService) RemainingTime() time.Duration {
	return s.sessions.RemainingTime()
}

func (s *controlService) ListPending() []models.PendingSyncData {
	return s.queue.List()
}

func (s *controlService) Approve(ctx context.Context, syncID string, approved bool, resolutions map[string]models.ConflictResolution) (models.MergeResult, error) {
	return s.approval.Resolve(ctx, syncID, approved, resolutions)
}
