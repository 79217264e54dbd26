package background

import (
	"context"
	"log"
	"sync"
	"time"

	"hostelhub/internal/caching"
	"hostelhub/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic background work: rent alert sweeps,
// occupancy reconciliation and cache housekeeping.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	rentAlerts   *jobs.RentAlertsJob
	reconcileJob *jobs.OccupancyReconcileJob
	cacheSvc     caching.CacheService
	jobJobs      map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(rentAlerts *jobs.RentAlertsJob, reconcileJob *jobs.OccupancyReconcileJob, cacheSvc caching.CacheService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		rentAlerts:   rentAlerts,
		reconcileJob: reconcileJob,
		cacheSvc:     cacheSvc,
		jobJobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Rent alert sweep - every 30 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.rentAlerts.RunAll, context.Background()),
		gocron.WithName("rent-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create rent alerts job: %v", err)
	} else {
		js.jobJobs["rent-alerts"] = alertsJob
	}

	// Occupancy reconciliation - every hour
	reconcileJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.reconcileJob.Run, context.Background()),
		gocron.WithName("occupancy-reconcile"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reconcile job: %v", err)
	} else {
		js.jobJobs["occupancy-reconcile"] = reconcileJob
	}

	// Cache housekeeping - every hour
	cacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.cleanupExpiredCache),
		gocron.WithName("cache-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create cache cleanup job: %v", err)
	} else {
		js.jobJobs["cache-cleanup"] = cacheJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

// cleanupExpiredCache is a no-op beyond logging: Redis evicts expired
// keys itself, the hook exists for pattern-based cleanup if needed.
func (js *JobScheduler) cleanupExpiredCache() error {
	log.Printf("Cache cleanup completed (Redis handles TTL automatically)")
	return nil
}

// GetJobStatus returns the names of the registered jobs.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	jobNames := make([]string, 0, len(js.jobJobs))
	for name := range js.jobJobs {
		jobNames = append(jobNames, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobJobs),
		"jobs":       jobNames,
	}
}
