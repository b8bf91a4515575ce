package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/utils"
	"github.com/MKhiriev/orbit-sync/models"
)

type httpSyncAdapter struct {
	client *utils.HTTPClient

	token string

	logger *logger.Logger
}

// NewHTTPSyncAdapter constructs an HTTP implementation of [SyncHostAdapter]
// pointed at the host address the user scanned or typed in
// (e.g. "http://192.168.1.23:8080").
//
// Returns an error if hostAddress is empty or cannot be parsed as a URL.
func NewHTTPSyncAdapter(hostAddress string, requestTimeout time.Duration, logger *logger.Logger) (SyncHostAdapter, error) {
	baseURL, err := normalizeBaseURL(hostAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid sync host address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout)

	return &httpSyncAdapter{
		client: client,
		logger: logger.GetChildLogger("component", "adapter"),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty host address")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("host address %q has no host part", raw)
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}

func (h *httpSyncAdapter) SetToken(token string) {
	h.token = token
}

func (h *httpSyncAdapter) Token() string {
	return h.token
}

// Ping implements [SyncHostAdapter]. It GETs the unauthenticated /ping
// discovery route and decodes the host's identification response.
func (h *httpSyncAdapter) Ping(ctx context.Context) (models.PingResponse, error) {
	var ping models.PingResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&ping).
		Get("/ping")
	if err != nil {
		return models.PingResponse{}, fmt.Errorf("ping request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PingResponse{}, err
	}

	return ping, nil
}

// Pair implements [SyncHostAdapter]. It POSTs the PIN and the device's
// display name to /pair. On success the returned session token is stored via
// SetToken for subsequent PushSync calls.
func (h *httpSyncAdapter) Pair(ctx context.Context, pin, deviceName string) (models.PairResponse, error) {
	var pairResp models.PairResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.PairRequest{Pin: pin, DeviceName: deviceName}).
		SetResult(&pairResp).
		SetError(&pairResp).
		Post("/pair")
	if err != nil {
		return models.PairResponse{}, fmt.Errorf("pair request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if pairResp.Message != "" {
			return pairResp, err
		}
		return models.PairResponse{}, err
	}

	h.SetToken(pairResp.Token)
	h.logger.Info().Str("device", deviceName).Msg("paired with sync host")

	return pairResp, nil
}

// PushSync implements [SyncHostAdapter]. It POSTs the transaction batch to
// /sync with the stored bearer token. Returns [ErrUnauthorized] (wrapped) if
// no pairing happened or the session died, and [ErrConflict] (wrapped) if
// the session already accepted a batch.
func (h *httpSyncAdapter) PushSync(ctx context.Context, payload models.SyncDataPayload) (models.SyncDataResponse, error) {
	var syncResp models.SyncDataResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(h.token).
		SetBody(payload).
		SetResult(&syncResp).
		SetError(&syncResp).
		Post("/sync")
	if err != nil {
		return models.SyncDataResponse{}, fmt.Errorf("sync request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if syncResp.Message != "" {
			return syncResp, err
		}
		return models.SyncDataResponse{}, err
	}

	return syncResp, nil
}
