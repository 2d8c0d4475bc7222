package save

import (
	"sync"

	"github.com/roylee0704/gron"

	"gsd/internal/providers"
	"gsd/internal/save/interfaces"
	"gsd/internal/structures"
)

// SchedulerTarget is the slice of the save service the scheduler drives.
type SchedulerTarget interface {
	WarmCache()
	FlushCache() bool
}

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	target  SchedulerTarget
	backups BackupManagerInterface
	queue   *OperationQueue
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.FlushInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if !s.target.FlushCache() {
			s.logger.Errorf(providers.TypeSave, "Periodic flush completed with errors")
			return
		}
		s.logger.Debugf(providers.TypeSave, "Periodic flush complete")
	})

	s.cron.AddFunc(gron.Every(s.config.Persistence.BackupInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		// The backup copies the primary file; skip while a save is
		// rewriting it.
		if s.queue.InFlight() {
			s.logger.Debugf(providers.TypeSave, "Skipping automatic backup, save in flight")
			return
		}
		if _, err := s.backups.Create(""); err != nil {
			s.logger.Errorf(providers.TypeSave, "Automatic backup failed: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore warms the runtime cache from disk. Called once at startup.
func (s *Scheduler) Restore() error {
	s.target.WarmCache()
	return nil
}

// Persist flushes all dirty records and takes a final backup. Called
// during shutdown.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Flushing dirty records to disk...")
	if !s.target.FlushCache() {
		s.logger.Errorf(providers.TypeApp, "Shutdown flush completed with errors")
	}
	if _, err := s.backups.Create(""); err != nil {
		// No primary file yet means nothing to back up.
		s.logger.Debugf(providers.TypeApp, "Final backup skipped: %s", err)
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, target SchedulerTarget, backups BackupManagerInterface, queue *OperationQueue) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		target:  target,
		backups: backups,
		queue:   queue,
	}
}
