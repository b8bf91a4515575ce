package models

// PairRequest is the body of POST /pair sent by the remote device.
type PairRequest struct {
	Pin        string `json:"pin"`
	DeviceName string `json:"deviceName"`
}

// PairResponse answers POST /pair. Token and ExpiresIn are present only on
// success; Message is always human-readable.
type PairResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int64  `json:"expiresIn,omitempty"` // seconds
	Message   string `json:"message"`
}

// SyncDataResponse answers POST /sync. PendingApproval reports whether the
// batch was parked for operator review instead of merged immediately.
type SyncDataResponse struct {
	Success         bool           `json:"success"`
	PendingApproval bool           `json:"pendingApproval"`
	Conflicts       []SyncConflict `json:"conflicts"`
	Message         string         `json:"message"`
}

// SyncApprovalRequest is the operator's decision for one pending sync:
// approve or reject, plus one resolution per conflicting transaction id.
type SyncApprovalRequest struct {
	SyncID              string                        `json:"syncId"`
	Approved            bool                          `json:"approved"`
	ConflictResolutions map[string]ConflictResolution `json:"conflictResolutions"`
}

// StartServerResult is what the host UI shows after opening a pairing
// session: the PIN to read out and the URL the remote device connects to.
type StartServerResult struct {
	Pin       string `json:"pin"`
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expiresIn"` // seconds
}

// SyncStatus is the pull-based status snapshot for the host UI.
type SyncStatus struct {
	Running          bool `json:"running"`
	ActiveSessions   int  `json:"activeSessions"`
	PendingApprovals int  `json:"pendingApprovals"`
	Port             int  `json:"port"`
}

// PingResponse answers GET /ping so a remote device can discover a host
// before pairing.
type PingResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
