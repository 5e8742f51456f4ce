package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Annotations is a free-form JSON object stored in a JSONB column.
type Annotations map[string]interface{}

func (a Annotations) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *Annotations) Scan(src interface{}) error {
	if src == nil {
		*a = Annotations{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("annotations: cannot scan %T", src)
	}
	return json.Unmarshal(b, a)
}

// EmotionRecord is a classified image owned by a single user. The
// emoji is derived from the emotion and the pair stays consistent on
// every write.
type EmotionRecord struct {
	ID          string      `db:"id" json:"id"`
	CustomID    *string     `db:"custom_id" json:"custom_id,omitempty"`
	UserID      string      `db:"user_id" json:"user_id"`
	Filename    string      `db:"filename" json:"filename"`
	Emotion     string      `db:"emotion" json:"emotion"`
	Emoji       string      `db:"emoji" json:"emoji"`
	Annotations Annotations `db:"annotations" json:"annotations"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// EmotionUpdate is a caller-supplied partial update. Nil fields were
// not submitted. Annotations are overlaid key-by-key onto the stored
// map, never replacing it wholesale.
type EmotionUpdate struct {
	Emotion     *string     `json:"emotion,omitempty"`
	Annotations Annotations `json:"annotations,omitempty"`
	UserID      *string     `json:"user_id,omitempty"`
}
