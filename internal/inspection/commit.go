package inspection

import (
	"context"
	"fmt"

	"github.com/surveyorhq/surveyor/internal/models"
	"github.com/surveyorhq/surveyor/internal/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskCommit is a confirmed task recording ready for durable write.
type TaskCommit struct {
	WorkOrderID uint
	TaskID      uint
	InspectorID uint
	Condition   string
	Remarks     string
	Cause       string
	Resolution  string
	Media       []session.MediaUpload
}

// LocationCommit is a confirmed location remark ready for durable write.
type LocationCommit struct {
	WorkOrderID uint
	LocationID  uint
	InspectorID uint
	Remarks     string
	Media       []session.MediaUpload
}

// CommitTaskEntry writes the durable record for a confirmed task and
// attaches its buffered media, all in one transaction. The entry is keyed
// by (work order, task) and media by storage key, so a retried
// confirmation after a partial failure converges on exactly one entry
// with exactly one attachment per upload.
func (s *Store) CommitTaskEntry(ctx context.Context, c TaskCommit) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.TaskEntry
		result := tx.Where("work_order_id = ? AND task_id = ?", c.WorkOrderID, c.TaskID).
			First(&entry)
		switch {
		case result.Error == gorm.ErrRecordNotFound:
			entry = models.TaskEntry{
				WorkOrderID: c.WorkOrderID,
				TaskID:      c.TaskID,
				InspectorID: c.InspectorID,
				Condition:   c.Condition,
				Remarks:     c.Remarks,
				Cause:       c.Cause,
				Resolution:  c.Resolution,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("create entry: %w", err)
			}
		case result.Error != nil:
			return fmt.Errorf("find entry: %w", result.Error)
		default:
			if err := tx.Model(&entry).Updates(map[string]interface{}{
				"inspector_id": c.InspectorID,
				"condition":    c.Condition,
				"remarks":      c.Remarks,
				"cause":        c.Cause,
				"resolution":   c.Resolution,
			}).Error; err != nil {
				return fmt.Errorf("update entry: %w", err)
			}
		}

		return attachMedia(tx, c.Media, &entry.ID, nil)
	})
	if err != nil {
		return fmt.Errorf("inspection: commit task entry (order %d, task %d): %w",
			c.WorkOrderID, c.TaskID, err)
	}
	return nil
}

// CommitLocationEntry writes the durable record for a location remark and
// attaches its buffered media.
func (s *Store) CommitLocationEntry(ctx context.Context, c LocationCommit) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.LocationEntry
		result := tx.Where("work_order_id = ? AND location_id = ?", c.WorkOrderID, c.LocationID).
			First(&entry)
		switch {
		case result.Error == gorm.ErrRecordNotFound:
			entry = models.LocationEntry{
				WorkOrderID: c.WorkOrderID,
				LocationID:  c.LocationID,
				InspectorID: c.InspectorID,
				Remarks:     c.Remarks,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("create entry: %w", err)
			}
		case result.Error != nil:
			return fmt.Errorf("find entry: %w", result.Error)
		default:
			if err := tx.Model(&entry).Updates(map[string]interface{}{
				"inspector_id": c.InspectorID,
				"remarks":      c.Remarks,
			}).Error; err != nil {
				return fmt.Errorf("update entry: %w", err)
			}
		}

		return attachMedia(tx, c.Media, nil, &entry.ID)
	})
	if err != nil {
		return fmt.Errorf("inspection: commit location entry (order %d, location %d): %w",
			c.WorkOrderID, c.LocationID, err)
	}
	return nil
}

// attachMedia persists buffered uploads against an entry. The unique
// storage-key index plus DoNothing makes re-attachment after a retried
// commit a no-op instead of a duplicate row.
func attachMedia(tx *gorm.DB, media []session.MediaUpload, taskEntryID, locationEntryID *uint) error {
	for _, m := range media {
		att := models.MediaAttachment{
			TaskEntryID:     taskEntryID,
			LocationEntryID: locationEntryID,
			URL:             m.URL,
			StorageKey:      m.StorageKey,
			MediaType:       m.MediaType,
			Condition:       m.Condition,
			UploadedAt:      m.UploadedAt,
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoNothing: true,
		}).Create(&att)
		if result.Error != nil {
			return fmt.Errorf("attach media %s: %w", m.StorageKey, result.Error)
		}
	}
	return nil
}
