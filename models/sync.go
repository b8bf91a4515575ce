package models

// SyncDataPayload is the batch of transactions a remote device uploads after
// pairing. Produced on the remote side, consumed exactly once by the host.
type SyncDataPayload struct {
	Transactions []Transaction `json:"transactions"`
	DeviceName   string        `json:"deviceName"`
	Timestamp    int64         `json:"timestamp"`
}

// PendingSyncData is one uploaded batch parked for operator review because
// it contains at least one conflict. It carries the *entire* payload:
// conflicted and clean transactions together, so the operator resolves the
// batch as a single atomic unit with full context.
//
// Never mutated in place: created by ingest, owned by the pending queue,
// destroyed on approval or rejection.
type PendingSyncData struct {
	ID         string          `json:"id"`
	Payload    SyncDataPayload `json:"payload"`
	Conflicts  []SyncConflict  `json:"conflicts"`
	ReceivedAt int64           `json:"receivedAt"`
	DeviceName string          `json:"deviceName"`
}

// ConflictedIDs returns the distinct transaction ids that carry at least one
// conflict, in first-seen order.
func (p *PendingSyncData) ConflictedIDs() []string {
	seen := make(map[string]struct{}, len(p.Conflicts))
	ids := make([]string, 0, len(p.Conflicts))
	for _, c := range p.Conflicts {
		if _, ok := seen[c.TransactionID]; ok {
			continue
		}
		seen[c.TransactionID] = struct{}{}
		ids = append(ids, c.TransactionID)
	}
	return ids
}
