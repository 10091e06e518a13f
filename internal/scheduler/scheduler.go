// Package scheduler runs the nightly pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/models"
)

// jobTimeout bounds one nightly run. A full replay window takes minutes;
// hours means something is wedged.
const jobTimeout = 4 * time.Hour

// Job is one scheduled pipeline run. The date is the calendar day in the
// scheduler's location at trigger time.
type Job func(ctx context.Context, today models.YMD) error

// Scheduler manages scheduled pipeline jobs
type Scheduler struct {
	cron      *cron.Cron
	location  *time.Location
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler running in the given location.
func NewScheduler(location *time.Location, logger *logrus.Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		location: location,
		logger:   logger,
		jobIDs:   make([]cron.EntryID, 0),
	}
}

// Schedule registers a named job on a cron expression.
func (s *Scheduler) Schedule(name, cronExpression string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		today := models.YMDFromTime(time.Now().In(s.location))
		log := s.logger.WithFields(logrus.Fields{"job": name, "date": today.ISO()})
		log.Info("scheduled job starting")

		start := time.Now()
		if err := job(ctx, today); err != nil {
			log.WithError(err).Error("scheduled job failed")
			return
		}
		log.WithField("elapsed", time.Since(start).Round(time.Second).String()).
			Info("scheduled job finished")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("job scheduled")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
