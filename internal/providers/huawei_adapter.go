package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/logging"
)

// huaweiTokenValidity is the FusionSolar session validity window; the
// server invalidates tokens after ~30 minutes, we refresh ahead of that.
const huaweiTokenValidity = 25 * time.Minute

const huaweiReloginFailCode = 20010

// HuaweiAdapter integrates the Huawei FusionSolar northbound API.
// It owns the login lifecycle: sessions expire server-side, so every call
// ensures a valid login first and performs exactly one forced re-login when
// the server reports the session has ended.
type HuaweiAdapter struct {
	transport *Transport
	username  string
	password  string

	mu             sync.Mutex
	loggedIn       bool
	tokenExpiresAt time.Time
}

var _ VendorAdapter = (*HuaweiAdapter)(nil)

// NewHuaweiAdapter constructs a FusionSolar adapter from username/password
// credentials and transport settings
func NewHuaweiAdapter(creds Credentials, settings AdapterSettings) (VendorAdapter, error) {
	username := creds["username"]
	password := creds["password"]
	if username == "" || password == "" {
		return nil, NewConfigError(
			"Huawei adapter requires username and password credentials",
			map[string]any{"credentials": credentialKeys(creds)},
			nil,
		)
	}

	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultHuaweiBaseURL
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultHuaweiTimeout
	}
	maxRetries := settings.MaxRetries
	if maxRetries <= 0 {
		maxRetries = constants.DefaultHuaweiMaxRetries
	}

	transport, err := NewTransport(
		baseURL,
		map[string]string{"Content-Type": "application/json"},
		timeout,
		maxRetries,
	)
	if err != nil {
		return nil, NewConfigError("invalid Huawei transport settings", map[string]any{"base_url": baseURL}, err)
	}

	return &HuaweiAdapter{
		transport: transport,
		username:  username,
		password:  password,
	}, nil
}

// huaweiEnvelope is the response wrapper every FusionSolar call uses
type huaweiEnvelope struct {
	Success  bool            `json:"success"`
	FailCode int             `json:"failCode"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
}

// Connect logs in if the adapter is logged out or the token expired
func (a *HuaweiAdapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ensureLogin(ctx)
}

// ListStations returns the stations visible to the account, normalized to
// the canonical shape
func (a *HuaweiAdapter) ListStations(ctx context.Context) ([]Station, error) {
	logging.Info("Huawei list stations", "username", a.username)

	env, err := a.post(ctx, "getStationList", nil)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, a.apiError("unexpected station list payload", env)
	}

	stations := make([]Station, 0, len(raw))
	for _, entry := range raw {
		stations = append(stations, Station{
			Code:       asString(entry["stationCode"]),
			Name:       asString(entry["stationName"]),
			CapacityKW: asFloat(entry["capacity"]),
			Raw:        entry,
		})
	}
	return stations, nil
}

// ListDevices returns the devices of a station, normalized to the
// canonical shape
func (a *HuaweiAdapter) ListDevices(ctx context.Context, stationCode string) ([]Device, error) {
	logging.Info("Huawei list devices", "station_code", stationCode)

	env, err := a.post(ctx, "getDevList", map[string]any{"stationCodes": stationCode})
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, a.apiError("unexpected device list payload", env)
	}

	devices := make([]Device, 0, len(raw))
	for _, entry := range raw {
		devices = append(devices, Device{
			ID:          asString(entry["devId"]),
			Name:        asString(entry["devName"]),
			StationCode: asString(entry["stationCode"]),
			TypeID:      int(asFloat(entry["devTypeId"])),
			Raw:         entry,
		})
	}
	return devices, nil
}

// ReadValue reads the current active power of a device in kW
func (a *HuaweiAdapter) ReadValue(ctx context.Context, deviceID string) (float64, error) {
	env, err := a.post(ctx, "getDevRealKpi", map[string]any{
		"devIds":    deviceID,
		"devTypeId": 1,
	})
	if err != nil {
		return 0, err
	}

	var entries []struct {
		DataItemMap map[string]any `json:"dataItemMap"`
	}
	if err := json.Unmarshal(env.Data, &entries); err != nil || len(entries) == 0 {
		return 0, a.apiError("no live data for device", env)
	}

	return asFloat(entries[0].DataItemMap["active_power"]), nil
}

// ------------------------------------------------------------------
// Login handling
// ------------------------------------------------------------------

func (a *HuaweiAdapter) isExpired() bool {
	return !a.tokenExpiresAt.IsZero() && !time.Now().Before(a.tokenExpiresAt)
}

func (a *HuaweiAdapter) ensureLogin(ctx context.Context) error {
	if !a.loggedIn || a.isExpired() {
		logging.Info("Huawei login required", "username", a.username)
		return a.login(ctx)
	}
	return nil
}

func (a *HuaweiAdapter) login(ctx context.Context) error {
	logging.Info("Huawei login start", "username", a.username)

	resp, err := a.transport.Request(ctx, http.MethodPost, "login", map[string]any{
		"userName":   a.username,
		"systemCode": a.password,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAuthError(
			constants.ErrCodeHuaweiAuthFailed,
			resp.StatusCode,
			"Huawei authentication failed",
			map[string]any{"body": string(body)},
		)
	}

	var env huaweiEnvelope
	if err := json.Unmarshal(body, &env); err != nil || !env.Success {
		return NewAuthError(
			constants.ErrCodeHuaweiAuthRejected,
			http.StatusUnauthorized,
			"Huawei authentication rejected",
			map[string]any{"message": env.Message, "failCode": env.FailCode},
		)
	}

	token := ""
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "XSRF-TOKEN" {
			token = cookie.Value
			break
		}
	}
	if token == "" {
		return NewAuthError(
			constants.ErrCodeHuaweiXSRFMissing,
			http.StatusBadGateway,
			"Huawei login missing XSRF token",
			nil,
		)
	}

	a.transport.SetHeader("XSRF-TOKEN", token)
	a.loggedIn = true
	a.tokenExpiresAt = time.Now().Add(huaweiTokenValidity)

	logging.Info("Huawei login OK", "username", a.username)
	return nil
}

// ------------------------------------------------------------------
// Authenticated POST helper
// ------------------------------------------------------------------

// post runs an authenticated FusionSolar call. When the server unilaterally
// ends the session (HTTP 401, USER_MUST_RELOGIN or failCode 20010) it
// forces exactly one re-login and retries the call exactly once; a second
// failure propagates.
func (a *HuaweiAdapter) post(ctx context.Context, endpoint string, payload map[string]any) (*huaweiEnvelope, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ensureLogin(ctx); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}

	env, status, err := a.call(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized || sessionEnded(env) {
		logging.Warn("Huawei session ended, re-login", "endpoint", endpoint, "status", status)
		if err := a.login(ctx); err != nil {
			return nil, err
		}
		env, _, err = a.call(ctx, endpoint, payload)
		if err != nil {
			return nil, err
		}
	}

	if !env.Success {
		return nil, a.apiError("Huawei API error", env)
	}

	a.tokenExpiresAt = time.Now().Add(huaweiTokenValidity)
	return env, nil
}

func (a *HuaweiAdapter) call(ctx context.Context, endpoint string, payload map[string]any) (*huaweiEnvelope, int, error) {
	resp, err := a.transport.Request(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	env := &huaweiEnvelope{}
	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return env, resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		return nil, resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeHuaweiAPIError,
			Message:    fmt.Sprintf("failed to decode Huawei response from %s", endpoint),
			StatusCode: http.StatusBadGateway,
			Err:        err,
		}
	}
	return env, resp.StatusCode, nil
}

func (a *HuaweiAdapter) apiError(message string, env *huaweiEnvelope) *ProviderError {
	return &ProviderError{
		Code:       constants.ErrCodeHuaweiAPIError,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Details: map[string]any{
			"message":  env.Message,
			"failCode": env.FailCode,
		},
	}
}

func sessionEnded(env *huaweiEnvelope) bool {
	return env.Message == "USER_MUST_RELOGIN" || env.FailCode == huaweiReloginFailCode
}

// ------------------------------------------------------------------
// Normalization helpers
// ------------------------------------------------------------------

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case json.Number:
		f, _ := t.Float64()
		return f
	default:
		return 0
	}
}

func credentialKeys(creds Credentials) []string {
	keys := make([]string, 0, len(creds))
	for k := range creds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
