package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/models"
)

// fakeEndpoint records lifecycle calls so tests can assert teardown.
type fakeEndpoint struct {
	started   int
	shutdowns int
	startErr  error
	lastPort  int
}

func (f *fakeEndpoint) Start(port int) error {
	f.started++
	f.lastPort = port
	return f.startErr
}

func (f *fakeEndpoint) Shutdown(ctx context.Context) {
	f.shutdowns++
}

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			TokenSignKey: "test-sign-key",
			TokenIssuer:  "orbit-sync",
			Version:      "1.0.0",
		},
		Sync: config.Sync{
			SessionDuration: 15 * time.Minute,
			MinSimilarity:   0.5,
			MaxSuggestions:  5,
		},
	}
}

// newTestSession returns a session service with a controllable clock. The
// clock starts at the real time because token expiry is checked against the
// wall clock during JWT parsing; tests move it forward explicitly.
func newTestSession(t *testing.T, endpoint Endpoint) (*sessionService, *time.Time) {
	t.Helper()

	now := time.Now().Truncate(time.Second)
	svc, ok := NewSessionService(testConfig(), logger.Nop()).(*sessionService)
	require.True(t, ok)
	svc.endpoint = endpoint
	svc.now = func() time.Time { return now }

	return svc, &now
}

func TestSessionStart(t *testing.T) {
	endpoint := &fakeEndpoint{}
	svc, _ := newTestSession(t, endpoint)

	result, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), result.Pin)
	assert.True(t, strings.HasPrefix(result.URL, "http://"))
	assert.True(t, strings.HasSuffix(result.URL, ":8080"))
	assert.Equal(t, int64(900), result.ExpiresIn)
	assert.Equal(t, 1, endpoint.started)
	assert.Equal(t, 8080, endpoint.lastPort)

	session, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, models.SessionListening, session.State)
	assert.True(t, session.IsActive)
}

func TestSessionStart_AlreadyActive(t *testing.T) {
	svc, _ := newTestSession(t, &fakeEndpoint{})

	_, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), 8081)
	assert.ErrorIs(t, err, ErrSessionAlreadyActive)
}

func TestSessionStart_AfterExpiry(t *testing.T) {
	svc, now := newTestSession(t, &fakeEndpoint{})

	_, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)

	*now = now.Add(16 * time.Minute)

	_, err = svc.Start(context.Background(), 8080)
	assert.NoError(t, err)
}

func TestSessionStart_EndpointError(t *testing.T) {
	endpoint := &fakeEndpoint{startErr: assert.AnError}
	svc, _ := newTestSession(t, endpoint)

	_, err := svc.Start(context.Background(), 8080)
	require.Error(t, err)

	_, ok := svc.Current()
	assert.False(t, ok, "session must not be armed when the endpoint fails to start")
}

func TestSessionAuthenticate(t *testing.T) {
	svc, now := newTestSession(t, &fakeEndpoint{})

	result, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)

	*now = now.Add(5 * time.Minute)

	resp, err := svc.Authenticate(context.Background(), result.Pin, "Pixel 9")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(600), resp.ExpiresIn)

	session, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, models.SessionPaired, session.State)
	assert.Equal(t, "Pixel 9", session.DeviceName)
}

func TestSessionAuthenticate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(t *testing.T, svc *sessionService, now *time.Time) (pin string)
		wantErr error
	}{
		{
			name: "no active session",
			arrange: func(t *testing.T, svc *sessionService, now *time.Time) string {
				return "123456"
			},
			wantErr: ErrNoActiveSession,
		},
		{
			name: "wrong pin",
			arrange: func(t *testing.T, svc *sessionService, now *time.Time) string {
				_, err := svc.Start(context.Background(), 8080)
				require.NoError(t, err)
				return "000000"
			},
			wantErr: ErrInvalidPin,
		},
		{
			name: "expired session",
			arrange: func(t *testing.T, svc *sessionService, now *time.Time) string {
				result, err := svc.Start(context.Background(), 8080)
				require.NoError(t, err)
				*now = now.Add(15 * time.Minute)
				return result.Pin
			},
			wantErr: ErrSessionExpired,
		},
		{
			name: "second device",
			arrange: func(t *testing.T, svc *sessionService, now *time.Time) string {
				result, err := svc.Start(context.Background(), 8080)
				require.NoError(t, err)
				_, err = svc.Authenticate(context.Background(), result.Pin, "Pixel 9")
				require.NoError(t, err)
				return result.Pin
			},
			wantErr: ErrAlreadyPaired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, now := newTestSession(t, &fakeEndpoint{})
			pin := tt.arrange(t, svc, now)

			_, err := svc.Authenticate(context.Background(), pin, "Intruder")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSessionValidateToken(t *testing.T) {
	svc, _ := newTestSession(t, &fakeEndpoint{})

	result, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)
	resp, err := svc.Authenticate(context.Background(), result.Pin, "Pixel 9")
	require.NoError(t, err)

	deviceName, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Pixel 9", deviceName)

	_, err = svc.ValidateToken("not-the-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionValidateToken_BeforePairing(t *testing.T) {
	svc, _ := newTestSession(t, &fakeEndpoint{})

	_, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)

	_, err = svc.ValidateToken("anything")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionBeginIngest_SingleSubmission(t *testing.T) {
	svc, _ := newTestSession(t, &fakeEndpoint{})

	result, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)
	resp, err := svc.Authenticate(context.Background(), result.Pin, "Pixel 9")
	require.NoError(t, err)

	deviceName, err := svc.BeginIngest(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Pixel 9", deviceName)

	// The slot is taken even though the first submission has not finished.
	_, err = svc.BeginIngest(resp.Token)
	assert.ErrorIs(t, err, ErrAlreadyIngested)
}

func TestSessionFinishIngest_FailureReleasesSlot(t *testing.T) {
	svc, _ := newTestSession(t, &fakeEndpoint{})

	result, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)
	resp, err := svc.Authenticate(context.Background(), result.Pin, "Pixel 9")
	require.NoError(t, err)

	_, err = svc.BeginIngest(resp.Token)
	require.NoError(t, err)

	svc.FinishIngest(context.Background(), false)

	_, err = svc.BeginIngest(resp.Token)
	assert.NoError(t, err, "a failed submission must not burn the session's only slot")
}

func TestSessionFinishIngest_SuccessClosesSession(t *testing.T) {
	endpoint := &fakeEndpoint{}
	svc, _ := newTestSession(t, endpoint)

	result, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)
	resp, err := svc.Authenticate(context.Background(), result.Pin, "Pixel 9")
	require.NoError(t, err)

	_, err = svc.BeginIngest(resp.Token)
	require.NoError(t, err)

	svc.FinishIngest(context.Background(), true)

	session, ok := svc.Current()
	require.True(t, ok)
	assert.False(t, session.IsActive)
	assert.Equal(t, models.SessionClosed, session.State)
	assert.Equal(t, 1, endpoint.shutdowns)

	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionRemainingTime(t *testing.T) {
	svc, now := newTestSession(t, &fakeEndpoint{})

	assert.Zero(t, svc.RemainingTime())

	_, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, svc.RemainingTime())

	*now = now.Add(10 * time.Minute)
	assert.Equal(t, 5*time.Minute, svc.RemainingTime())

	*now = now.Add(10 * time.Minute)
	assert.Zero(t, svc.RemainingTime())
}

func TestSessionExpireIfDue(t *testing.T) {
	endpoint := &fakeEndpoint{}
	svc, now := newTestSession(t, endpoint)

	assert.False(t, svc.ExpireIfDue(context.Background()))

	_, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)
	assert.False(t, svc.ExpireIfDue(context.Background()))

	*now = now.Add(15 * time.Minute)
	assert.True(t, svc.ExpireIfDue(context.Background()))
	assert.Equal(t, 1, endpoint.shutdowns)

	// Already torn down, nothing left to expire.
	assert.False(t, svc.ExpireIfDue(context.Background()))
}

func TestSessionStop(t *testing.T) {
	endpoint := &fakeEndpoint{}
	svc, _ := newTestSession(t, endpoint)

	// Stop with no session yet is a no-op.
	require.NoError(t, svc.Stop(context.Background()))
	assert.Equal(t, 0, endpoint.shutdowns)

	_, err := svc.Start(context.Background(), 8080)
	require.NoError(t, err)

	require.NoError(t, svc.Stop(context.Background()))
	assert.Equal(t, 1, endpoint.shutdowns)

	// Repeated Stop stays a no-op and does not shut the endpoint twice.
	require.NoError(t, svc.Stop(context.Background()))
	assert.Equal(t, 1, endpoint.shutdowns)
}

func TestGeneratePin(t *testing.T) {
	for i := 0; i < 100; i++ {
		pin := generatePin()
		assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), pin)
	}
}
