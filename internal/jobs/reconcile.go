package jobs

import (
	"context"
	"log"
	"time"

	"hostelhub/internal/repositories"
	"hostelhub/internal/services"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// OccupancyReconcileJob recomputes room occupancy from the tenant
// roster for every hostel and repairs counter drift.
type OccupancyReconcileJob struct {
	occupancySvc services.OccupancyService
	hostelRepo   repositories.HostelRepository
}

func NewOccupancyReconcileJob(occupancySvc services.OccupancyService, hostelRepo repositories.HostelRepository) *OccupancyReconcileJob {
	return &OccupancyReconcileJob{
		occupancySvc: occupancySvc,
		hostelRepo:   hostelRepo,
	}
}

func (j *OccupancyReconcileJob) Run(ctx context.Context) error {
	hostels, err := j.hostelRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Occupancy reconcile: failed to list hostels: %v", err)
		return err
	}

	for _, hostel := range hostels {
		corrected, err := j.occupancySvc.Reconcile(ctx, hostel.ID)
		if err != nil {
			log.Printf("Occupancy reconcile failed for hostel %s: %v", hostel.Code, err)
			continue
		}
		if corrected > 0 {
			log.Printf("Occupancy reconcile for %s corrected %d room(s)", hostel.Code, corrected)
		}
	}
	return nil
}
