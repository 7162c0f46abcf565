// Package inspection is the persistence adapter between the chat engine
// and the durable relational store. The engine calls it only at
// confirmation points; conversational state stays in the session document.
package inspection

import (
	"context"
	"fmt"
	"time"

	"github.com/surveyorhq/surveyor/internal/models"
	"gorm.io/gorm"
)

// Store wraps the relational inspection store.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("inspection: db is required")
	}
	return &Store{db: db}, nil
}

// FindInspectorByCode resolves an access code to an active inspector.
// Returns (nil, nil) when no inspector matches.
func (s *Store) FindInspectorByCode(ctx context.Context, code string) (*models.Inspector, error) {
	var insp models.Inspector
	result := s.db.WithContext(ctx).
		Where("access_code = ? AND active = ?", code, true).
		First(&insp)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("inspection: find inspector: %w", result.Error)
	}
	return &insp, nil
}

// FindActiveJobs returns the inspector's pending and in-progress work
// orders scheduled within the day containing at.
func (s *Store) FindActiveJobs(ctx context.Context, inspectorID uint, at time.Time) ([]models.WorkOrder, error) {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var orders []models.WorkOrder
	result := s.db.WithContext(ctx).
		Where("inspector_id = ? AND status IN ? AND scheduled_for >= ? AND scheduled_for < ?",
			inspectorID, []string{models.WorkOrderPending, models.WorkOrderInProgress}, dayStart, dayEnd).
		Order("scheduled_for, id").
		Find(&orders)
	if result.Error != nil {
		return nil, fmt.Errorf("inspection: find active jobs: %w", result.Error)
	}
	return orders, nil
}

// InProgressJob returns the inspector's currently in-progress work order,
// or (nil, nil) when there is none. Used for scheduling-conflict checks.
func (s *Store) InProgressJob(ctx context.Context, inspectorID uint) (*models.WorkOrder, error) {
	var order models.WorkOrder
	result := s.db.WithContext(ctx).
		Where("inspector_id = ? AND status = ?", inspectorID, models.WorkOrderInProgress).
		First(&order)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("inspection: in-progress job: %w", result.Error)
	}
	return &order, nil
}

// StartJob marks a work order in progress. Starting an order that is
// already in progress is a no-op, which is what makes a repeated confirm
// message side-effect free.
func (s *Store) StartJob(ctx context.Context, jobID uint) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.WorkOrder{}).
		Where("id = ? AND status = ?", jobID, models.WorkOrderPending).
		Updates(map[string]interface{}{
			"status":     models.WorkOrderInProgress,
			"started_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("inspection: start job %d: %w", jobID, result.Error)
	}
	return nil
}

// CompleteJob marks an in-progress work order completed.
func (s *Store) CompleteJob(ctx context.Context, jobID uint) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.WorkOrder{}).
		Where("id = ? AND status = ?", jobID, models.WorkOrderInProgress).
		Updates(map[string]interface{}{
			"status":       models.WorkOrderCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("inspection: complete job %d: %w", jobID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("inspection: complete job %d: not in progress", jobID)
	}
	return nil
}

// CancelJob marks a pending or in-progress work order cancelled.
func (s *Store) CancelJob(ctx context.Context, jobID uint) error {
	result := s.db.WithContext(ctx).Model(&models.WorkOrder{}).
		Where("id = ? AND status IN ?", jobID,
			[]string{models.WorkOrderPending, models.WorkOrderInProgress}).
		Update("status", models.WorkOrderCancelled)
	if result.Error != nil {
		return fmt.Errorf("inspection: cancel job %d: %w", jobID, result.Error)
	}
	return nil
}

// Locations returns the checklist locations of a work order in menu order.
func (s *Store) Locations(ctx context.Context, workOrderID uint) ([]models.Location, error) {
	var locs []models.Location
	result := s.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("position, id").
		Find(&locs)
	if result.Error != nil {
		return nil, fmt.Errorf("inspection: locations for order %d: %w", workOrderID, result.Error)
	}
	return locs, nil
}

// SubLocations returns the sub-locations of a location in menu order.
func (s *Store) SubLocations(ctx context.Context, locationID uint) ([]models.SubLocation, error) {
	var subs []models.SubLocation
	result := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("position, id").
		Find(&subs)
	if result.Error != nil {
		return nil, fmt.Errorf("inspection: sub-locations for %d: %w", locationID, result.Error)
	}
	return subs, nil
}

// Tasks returns the checklist tasks of a sub-location in menu order.
func (s *Store) Tasks(ctx context.Context, subLocationID uint) ([]models.Task, error) {
	var tasks []models.Task
	result := s.db.WithContext(ctx).
		Where("sub_location_id = ?", subLocationID).
		Order("position, id").
		Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("inspection: tasks for %d: %w", subLocationID, result.Error)
	}
	return tasks, nil
}

// InspectorsWithJobs returns the inspectors who have pending work orders
// scheduled within the day containing at, with their orders preloaded.
// Used by the daily reminder scheduler.
func (s *Store) InspectorsWithJobs(ctx context.Context, at time.Time) ([]models.Inspector, error) {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var inspectors []models.Inspector
	result := s.db.WithContext(ctx).
		Where("active = ? AND id IN (?)", true,
			s.db.Model(&models.WorkOrder{}).
				Select("inspector_id").
				Where("status = ? AND scheduled_for >= ? AND scheduled_for < ?",
					models.WorkOrderPending, dayStart, dayEnd),
		).
		Find(&inspectors)
	if result.Error != nil {
		return nil, fmt.Errorf("inspection: inspectors with jobs: %w", result.Error)
	}
	return inspectors, nil
}
