package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"emotion-service/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Predicate is a field-equality conjunction over an emotion record.
// Zero-valued fields are not part of the condition. ID and CustomID
// are mutually exclusive ways to name the same record.
type Predicate struct {
	ID       string
	CustomID string
	UserID   string
}

func (p Predicate) build() (string, []interface{}) {
	clauses := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("id", p.ID)
	add("custom_id", p.CustomID)
	add("user_id", p.UserID)
	if len(clauses) == 0 {
		return "TRUE", nil
	}
	return strings.Join(clauses, " AND "), args
}

type EmotionRepository interface {
	Insert(record *models.EmotionRecord) error
	FindOne(pred Predicate) (*models.EmotionRecord, error)
	FindMany(pred Predicate) ([]*models.EmotionRecord, error)
	UpdateFields(id string, fields map[string]interface{}) error
	Delete(id string) error
}

type emotionRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewEmotionRepository(db *sqlx.DB, log *zap.Logger) EmotionRepository {
	return &emotionRepository{db: db, log: log}
}

const emotionColumns = `id, custom_id, user_id, filename, emotion, emoji, annotations, created_at, updated_at`

func (r *emotionRepository) Insert(record *models.EmotionRecord) error {
	query := `INSERT INTO emotion_records (custom_id, user_id, filename, emotion, emoji, annotations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowx(query,
		record.CustomID, record.UserID, record.Filename, record.Emotion,
		record.Emoji, record.Annotations, record.CreatedAt, record.UpdatedAt,
	).Scan(&record.ID)
}

func (r *emotionRepository) FindOne(pred Predicate) (*models.EmotionRecord, error) {
	where, args := pred.build()
	var record models.EmotionRecord
	query := fmt.Sprintf(`SELECT %s FROM emotion_records WHERE %s`, emotionColumns, where)
	err := r.db.Get(&record, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *emotionRepository) FindMany(pred Predicate) ([]*models.EmotionRecord, error) {
	where, args := pred.build()
	records := []*models.EmotionRecord{}
	query := fmt.Sprintf(`SELECT %s FROM emotion_records WHERE %s ORDER BY created_at`, emotionColumns, where)
	if err := r.db.Select(&records, query, args...); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *emotionRepository) UpdateFields(id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for _, column := range []string{"custom_id", "user_id", "emotion", "emoji", "annotations", "updated_at"} {
		value, ok := fields[column]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if len(sets) != len(fields) {
		return fmt.Errorf("update contains unknown column: %v", fields)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE emotion_records SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *emotionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM emotion_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRows
	}
	return nil
}
