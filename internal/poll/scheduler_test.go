package poll

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbd/internal/events"
	"sbd/internal/storage"
	"sbd/internal/structures"
	"sbd/internal/testutil"
)

func newTestScheduler(t *testing.T, service *testutil.MockStreamService) (*Scheduler, *events.Bus) {
	t.Helper()
	conf := &structures.Config{}
	conf.Poll.Interval = time.Hour
	conf.Poll.InitialDelay = time.Hour
	conf.Persistence.FilePath = filepath.Join(t.TempDir(), "state.bin")

	logger := &testutil.MockLogger{}
	store := storage.NewStore(conf, &testutil.MockCompressor{}, logger)
	bus := events.NewBus(logger)
	scheduler := NewScheduler(conf, logger, service, store, bus).(*Scheduler)
	return scheduler, bus
}

func waitForUpdates(t *testing.T, service *testutil.MockStreamService, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if service.Updates() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d updates, got %d", want, service.Updates())
}

func TestSchedulerBusTriggerRunsUpdate(t *testing.T) {
	service := &testutil.MockStreamService{}
	scheduler, bus := newTestScheduler(t, service)
	scheduler.Init()
	defer scheduler.Stop()

	bus.Publish(events.TopicUpdateRequest)
	waitForUpdates(t, service, 1)

	bus.Publish(events.TopicUpdateRequest)
	bus.Publish(events.TopicUpdateRequest)
	waitForUpdates(t, service, 3)
}

func TestSchedulerInitialDelayTrigger(t *testing.T) {
	conf := &structures.Config{}
	conf.Poll.Interval = time.Hour
	conf.Poll.InitialDelay = 10 * time.Millisecond
	conf.Persistence.FilePath = filepath.Join(t.TempDir(), "state.bin")

	logger := &testutil.MockLogger{}
	service := &testutil.MockStreamService{}
	store := storage.NewStore(conf, &testutil.MockCompressor{}, logger)
	scheduler := NewScheduler(conf, logger, service, store, events.NewBus(logger)).(*Scheduler)
	scheduler.Init()
	defer scheduler.Stop()

	waitForUpdates(t, service, 1)
}

func TestSchedulerStopEndsBusListener(t *testing.T) {
	service := &testutil.MockStreamService{}
	scheduler, bus := newTestScheduler(t, service)
	scheduler.Init()
	scheduler.Stop()

	before := service.Updates()
	bus.Publish(events.TopicUpdateRequest)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, service.Updates(), "no triggers after Stop")
}

func TestSchedulerRestoreAndPersist(t *testing.T) {
	service := &testutil.MockStreamService{}
	scheduler, _ := newTestScheduler(t, service)

	require.NoError(t, scheduler.Restore())
	require.NoError(t, scheduler.Persist())
}
