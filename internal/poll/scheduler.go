package poll

import (
	"context"
	"time"

	"github.com/roylee0704/gron"

	"sbd/internal/events"
	"sbd/internal/poll/interfaces"
	"sbd/internal/providers"
	"sbd/internal/services"
	"sbd/internal/storage"
	"sbd/internal/structures"
)

// Scheduler is the single trigger for update cycles: a recurring gron
// job, one initial run after a short delay, and a bus subscription for
// manual refreshes. All three paths invoke the orchestrator
// identically.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.StreamServiceInterface
	store   *storage.Store
	bus     *events.Bus

	cron         *gron.Cron
	initialTimer *time.Timer
	unsubscribe  func()
	done         chan struct{}
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.StreamServiceInterface, store *storage.Store, bus *events.Bus) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
		store:   store,
		bus:     bus,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Poll.Interval), s.trigger)
	s.cron.Start()

	s.initialTimer = time.AfterFunc(s.config.Poll.InitialDelay, s.trigger)

	ch, unsubscribe := s.bus.Subscribe(events.TopicUpdateRequest)
	s.unsubscribe = unsubscribe
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		for range ch {
			s.trigger()
		}
	}()

	s.logger.Infof(providers.TypeApp, "Scheduler started: interval=%s initialDelay=%s",
		s.config.Poll.Interval, s.config.Poll.InitialDelay)
}

func (s *Scheduler) trigger() {
	// Errors and dropped overlaps are logged and counted by the
	// service; the scheduler never retries.
	_ = s.service.UpdateLiveStreams(context.Background())
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.initialTimer != nil {
		s.initialTimer.Stop()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		<-s.done
	}
}

// Restore loads the persisted state at startup.
func (s *Scheduler) Restore() error {
	return s.store.Load()
}

// Persist writes the state at shutdown. Every cycle already writes
// through, so this only matters for credentials set since the last
// successful publish.
func (s *Scheduler) Persist() error {
	s.logger.Infof(providers.TypeApp, "Persisting state to file...")
	err := s.store.Save()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
		return err
	}
	return nil
}
