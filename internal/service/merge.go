package service

import (
	"time"

	"emotion-service/internal/models"
)

// MergeUpdate combines a partial update with the writable-field
// restriction and the existing record into the column set to persist.
// Annotations are overlaid key-by-key onto the stored map. A staged
// emotion is validated against the taxonomy and its emoji staged with
// it; on an invalid emotion nothing is staged at all. updated_at is
// always staged, even when no other field changed.
func MergeUpdate(existing *models.EmotionRecord, update *models.EmotionUpdate, writable FieldSet, taxonomy *Taxonomy, now time.Time) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if update.Emotion != nil && writable.Contains(FieldEmotion) {
		label, err := taxonomy.Validate(*update.Emotion)
		if err != nil {
			return nil, err
		}
		fields[FieldEmotion] = label
		fields["emoji"] = taxonomy.Emoji(label)
	}

	if update.Annotations != nil && writable.Contains(FieldAnnotations) {
		merged := models.Annotations{}
		for k, v := range existing.Annotations {
			merged[k] = v
		}
		for k, v := range update.Annotations {
			merged[k] = v
		}
		fields[FieldAnnotations] = merged
	}

	if update.UserID != nil && writable.Contains(FieldUserID) {
		fields[FieldUserID] = *update.UserID
	}

	fields["updated_at"] = now.UTC()
	return fields, nil
}
