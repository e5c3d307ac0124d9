package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/atomic"

	"sbd/internal/badge"
	"sbd/internal/events"
	"sbd/internal/models"
	"sbd/internal/providers"
	"sbd/internal/storage"
	"sbd/internal/twitch"
)

// ErrUpdateInFlight is returned to a trigger that arrives while a
// cycle is already running. The trigger is dropped, not queued.
var ErrUpdateInFlight = errors.New("services: update already in flight")

var errNoFollower = errors.New("no follower id configured")

type StreamServiceInterface interface {
	UpdateLiveStreams(ctx context.Context) error
	Snapshot() models.Snapshot
	Badge() models.Badge
	WhoAmI(ctx context.Context) (models.UserInfo, error)
}

// StreamService runs the poll cycle: follows, user infos, active
// streams and game names, merged into a snapshot, strictly in that
// order.
type StreamService struct {
	api     twitch.API
	store   *storage.Store
	badge   badge.Surface
	bus     *events.Bus
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	running atomic.Bool
}

func NewStreamService(api twitch.API, store *storage.Store, badgeSurface badge.Surface, bus *events.Bus, logger providers.Logger, metrics providers.MetricsProviderInterface) StreamServiceInterface {
	return &StreamService{
		api:     api,
		store:   store,
		badge:   badgeSurface,
		bus:     bus,
		logger:  logger,
		metrics: metrics,
	}
}

// UpdateLiveStreams is the single orchestration entry point, invoked
// identically by the timer and by manual refresh. Overlapping triggers
// are dropped so two cycles can never interleave writes.
func (s *StreamService) UpdateLiveStreams(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.IncPollCycles("dropped")
		s.logger.Debugf(providers.TypePoll, "update already in flight, dropping trigger")
		return ErrUpdateInFlight
	}
	defer s.running.Store(false)

	start := time.Now()
	err := s.update(ctx)
	s.metrics.ObservePollDuration(time.Since(start))

	switch {
	case err == nil:
		s.metrics.IncPollCycles("ok")
	case errors.Is(err, errNoFollower):
		// Nothing configured yet; not an error.
		s.metrics.IncPollCycles("skipped")
		return nil
	default:
		// The previous snapshot stays on display until the next
		// successful cycle.
		s.metrics.IncPollCycles("error")
		s.logger.Errorf(providers.TypePoll, "update cycle aborted: %s", err)
	}
	return err
}

func (s *StreamService) update(ctx context.Context) error {
	_, followerID := s.store.Credentials()
	if followerID == "" {
		return errNoFollower
	}

	follows, err := s.api.Follows(ctx, followerID)
	if err != nil {
		return err
	}
	if len(follows) == 0 {
		return s.publish(nil)
	}

	followeeIDs := make([]string, 0, len(follows))
	for _, edge := range follows {
		followeeIDs = append(followeeIDs, edge.ToID)
	}

	users, err := s.api.UserInfos(ctx, followeeIDs)
	if err != nil {
		return err
	}
	logins := make(map[string]string, len(users))
	for _, user := range users {
		logins[user.ID] = user.Login
	}

	streams, err := s.api.ActiveStreams(ctx, followeeIDs)
	if err != nil {
		return err
	}
	if len(streams) == 0 {
		return s.publish(nil)
	}

	gameNames, err := s.resolveGameNames(ctx, streams)
	if err != nil {
		return err
	}

	liveStreams := make([]models.LiveStream, 0, len(streams))
	for _, stream := range streams {
		gameName := ""
		if stream.Type == models.StreamTypeLive {
			gameName = gameNames[stream.GameID]
		}
		liveStreams = append(liveStreams, models.LiveStream{
			UserName:    stream.UserName,
			UserLogin:   logins[stream.UserID],
			UserID:      stream.UserID,
			GameName:    gameName,
			Title:       stream.Title,
			Type:        stream.Type,
			ViewerCount: stream.ViewerCount,
		})
	}
	return s.publish(liveStreams)
}

// resolveGameNames maps game id to name for the distinct, non-empty
// game ids of streams that are actually live. Other stream types keep
// an empty game name.
func (s *StreamService) resolveGameNames(ctx context.Context, streams []models.StreamInfo) (map[string]string, error) {
	seen := make(map[string]struct{})
	var gameIDs []string
	for _, stream := range streams {
		if stream.Type != models.StreamTypeLive || stream.GameID == "" {
			continue
		}
		if _, ok := seen[stream.GameID]; ok {
			continue
		}
		seen[stream.GameID] = struct{}{}
		gameIDs = append(gameIDs, stream.GameID)
	}

	names := make(map[string]string, len(gameIDs))
	if len(gameIDs) == 0 {
		return names, nil
	}
	games, err := s.api.GameNames(ctx, gameIDs)
	if err != nil {
		return nil, err
	}
	for _, game := range games {
		names[game.ID] = game.Name
	}
	return names, nil
}

// publish writes the snapshot durably, then updates the badge, then
// broadcasts the refreshed event. The order is load-bearing: readers
// of a refreshed event must see the new snapshot.
func (s *StreamService) publish(streams []models.LiveStream) error {
	if streams == nil {
		streams = []models.LiveStream{}
	}
	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if err := s.store.PutSnapshot(streams, updatedAt); err != nil {
		return err
	}
	s.badge.Set(models.BadgeColorAccent, strconv.Itoa(len(streams)))
	s.bus.Publish(events.TopicRefreshed)
	s.logger.Infof(providers.TypePoll, "published snapshot: %d live streams", len(streams))
	return nil
}

func (s *StreamService) Snapshot() models.Snapshot {
	return s.store.Snapshot()
}

func (s *StreamService) Badge() models.Badge {
	return s.badge.Get()
}

func (s *StreamService) WhoAmI(ctx context.Context) (models.UserInfo, error) {
	return s.api.MyInfo(ctx)
}
