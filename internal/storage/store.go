package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"sbd/internal/models"
	"sbd/internal/providers"
	"sbd/internal/structures"
)

// State is the flat key-value content of the store: the bearer token
// and follower id written by the external login flow, plus the last
// snapshot and its timestamp, rewritten wholesale every cycle.
type State struct {
	Token      string              `json:"twitch_token,omitempty"`
	FollowerID string              `json:"follower_id,omitempty"`
	Streams    []models.LiveStream `json:"live_streams"`
	UpdatedAt  string              `json:"updated_ts"`
}

// Store keeps State in memory and writes it through to a single
// zstd-compressed JSON file on every mutation.
type Store struct {
	mu         sync.RWMutex
	saveMu     sync.Mutex
	state      State
	seed       structures.TwitchConfig
	path       string
	compressor CompressorInterface
	logger     providers.Logger
}

func NewStore(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) *Store {
	return &Store{
		seed:       conf.Twitch,
		path:       conf.Persistence.FilePath,
		compressor: compressor,
		logger:     logger,
	}
}

// Load reads the state file. A missing file is not an error: the store
// starts from the optional config credential seed. A state file that
// does not decompress is retried as plain JSON so pre-compression
// files keep working.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.applySeed()
			return nil
		}
		return fmt.Errorf("storage: read state: %w", err)
	}

	raw, err := s.compressor.Decompress(data)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "state file not compressed, trying plain JSON")
		raw = data
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("storage: decode state: %w", err)
	}
	s.state = state
	s.applySeed()
	return nil
}

// applySeed fills credentials from config only where the store has
// none. Caller holds the lock.
func (s *Store) applySeed() {
	if s.state.Token == "" && s.seed.Token != "" {
		s.state.Token = s.seed.Token
	}
	if s.state.FollowerID == "" && s.seed.FollowerID != "" {
		s.state.FollowerID = s.seed.FollowerID
	}
}

// Save writes the state atomically: tmp file, sync, rename. Writers
// share one tmp path, so the whole sequence is serialized; concurrent
// savers (a publishing cycle vs a credential write) queue up rather
// than interleave on the tmp file.
func (s *Store) Save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	jsonData, err := json.Marshal(&state)
	if err != nil {
		return fmt.Errorf("storage: encode state: %w", err)
	}
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return fmt.Errorf("storage: compress state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("storage: create state dir: %w", err)
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}

func (s *Store) Credentials() (token, followerID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token, s.state.FollowerID
}

// Token implements the twitch client's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Store) SetCredentials(token, followerID string) error {
	s.mu.Lock()
	s.state.Token = token
	if followerID != "" {
		s.state.FollowerID = followerID
	}
	s.mu.Unlock()
	return s.Save()
}

// ClearToken deletes the stored credential. Called on any 401.
func (s *Store) ClearToken() error {
	s.mu.Lock()
	s.state.Token = ""
	s.mu.Unlock()
	return s.Save()
}

// PutSnapshot replaces the stored snapshot wholesale and persists it
// before returning, so notifications only ever follow a durable write.
func (s *Store) PutSnapshot(streams []models.LiveStream, updatedAt string) error {
	if streams == nil {
		streams = []models.LiveStream{}
	}
	s.mu.Lock()
	s.state.Streams = streams
	s.state.UpdatedAt = updatedAt
	s.mu.Unlock()
	return s.Save()
}

func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	streams := make([]models.LiveStream, len(s.state.Streams))
	copy(streams, s.state.Streams)
	return models.Snapshot{Streams: streams, UpdatedAt: s.state.UpdatedAt}
}

// LiveCount implements providers.SnapshotSource.
func (s *Store) LiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Streams)
}

func (s *Store) Close() {
	s.compressor.Close()
}
