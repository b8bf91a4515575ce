package service

import (
	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/store"
)

// Services aggregates the sync core's service layer.
type Services struct {
	Session  SessionService
	Detector ConflictDetector
	Queue    PendingQueue
	Ingest   IngestService
	Approval ApprovalService
	Control  ControlService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, log *logger.Logger) *Services {
	sessions := NewSessionService(cfg, log)
	detector := NewConflictDetector(cfg.Sync)
	queue := NewPendingQueue()
	ingest := NewIngestService(sessions, detector, queue, storages.Ledger, log)
	approval := NewApprovalService(queue, storages.Ledger, log)
	control := NewControlService(sessions, queue, approval, log)

	return &Services{
		Session:  sessions,
		Detector: detector,
		Queue:    queue,
		Ingest:   ingest,
		Approval: approval,
		Control:  control,
	}
}
