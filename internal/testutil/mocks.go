package testutil

import (
	"context"
	"sync"
	"time"

	"sbd/internal/models"
	"sbd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements storage.CompressorInterface with
// injectable behavior; the default is identity.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts
// everything it sees.
type MockMetrics struct {
	mu            sync.Mutex
	Requests      map[string]int
	CacheHits     int
	CacheMisses   int
	HelixRequests map[string]int
	PollCycles    map[string]int
	PollDurations int
	Unauthorized  int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:      make(map[string]int),
		HelixRequests: make(map[string]int),
		PollCycles:    make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncHelixRequests(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HelixRequests[endpoint]++
}
func (m *MockMetrics) IncPollCycles(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollCycles[result]++
}
func (m *MockMetrics) ObservePollDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollDurations++
}
func (m *MockMetrics) IncUnauthorized() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unauthorized++
}

// MockBadge implements badge.Surface and records every Set.
type MockBadge struct {
	mu    sync.Mutex
	State models.Badge
	Sets  []models.Badge
}

func (m *MockBadge) Set(color, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.State = models.Badge{Color: color, Text: text}
	m.Sets = append(m.Sets, m.State)
}

func (m *MockBadge) Get() models.Badge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.State
}

// MockAPI implements twitch.API with injectable functions and records
// call arguments. Nil functions return empty results.
type MockAPI struct {
	mu sync.Mutex

	MyInfoFn        func(ctx context.Context) (models.UserInfo, error)
	FollowsFn       func(ctx context.Context, followerID string) ([]models.FollowEdge, error)
	UserInfosFn     func(ctx context.Context, ids []string) ([]models.UserInfo, error)
	ActiveStreamsFn func(ctx context.Context, ids []string) ([]models.StreamInfo, error)
	GameNamesFn     func(ctx context.Context, ids []string) ([]models.Game, error)

	FollowsCalls       []string
	UserInfosCalls     [][]string
	ActiveStreamsCalls [][]string
	GameNamesCalls     [][]string
}

func (m *MockAPI) MyInfo(ctx context.Context) (models.UserInfo, error) {
	if m.MyInfoFn != nil {
		return m.MyInfoFn(ctx)
	}
	return models.UserInfo{}, nil
}

func (m *MockAPI) Follows(ctx context.Context, followerID string) ([]models.FollowEdge, error) {
	m.mu.Lock()
	m.FollowsCalls = append(m.FollowsCalls, followerID)
	m.mu.Unlock()
	if m.FollowsFn != nil {
		return m.FollowsFn(ctx, followerID)
	}
	return nil, nil
}

func (m *MockAPI) UserInfos(ctx context.Context, ids []string) ([]models.UserInfo, error) {
	m.mu.Lock()
	m.UserInfosCalls = append(m.UserInfosCalls, ids)
	m.mu.Unlock()
	if m.UserInfosFn != nil {
		return m.UserInfosFn(ctx, ids)
	}
	return nil, nil
}

func (m *MockAPI) ActiveStreams(ctx context.Context, ids []string) ([]models.StreamInfo, error) {
	m.mu.Lock()
	m.ActiveStreamsCalls = append(m.ActiveStreamsCalls, ids)
	m.mu.Unlock()
	if m.ActiveStreamsFn != nil {
		return m.ActiveStreamsFn(ctx, ids)
	}
	return nil, nil
}

func (m *MockAPI) GameNames(ctx context.Context, ids []string) ([]models.Game, error) {
	m.mu.Lock()
	m.GameNamesCalls = append(m.GameNamesCalls, ids)
	m.mu.Unlock()
	if m.GameNamesFn != nil {
		return m.GameNamesFn(ctx, ids)
	}
	return nil, nil
}

// MockStreamService implements services.StreamServiceInterface
// structurally, so lower-level packages can use it without importing
// services.
type MockStreamService struct {
	mu          sync.Mutex
	UpdateCalls int
	UpdateErr   error
	SnapshotVal models.Snapshot
	BadgeVal    models.Badge
	WhoAmIVal   models.UserInfo
	WhoAmIErr   error
}

func (m *MockStreamService) UpdateLiveStreams(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	return m.UpdateErr
}

func (m *MockStreamService) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.UpdateCalls
}

func (m *MockStreamService) Snapshot() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SnapshotVal
}

func (m *MockStreamService) Badge() models.Badge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BadgeVal
}

func (m *MockStreamService) WhoAmI(_ context.Context) (models.UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.WhoAmIVal, m.WhoAmIErr
}
