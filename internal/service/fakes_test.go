package service

import (
	"context"
	"errors"
	"time"

	"emotion-service/internal/models"
	"emotion-service/internal/repository"

	"github.com/google/uuid"
)

type fakeAuthRepo struct {
	users map[string]*models.User // keyed by username
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: map[string]*models.User{}}
}

func (r *fakeAuthRepo) CreateUser(user *models.User) error {
	if _, ok := r.users[user.Username]; ok {
		return repository.ErrDuplicate
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	copied := *user
	r.users[user.Username] = &copied
	return nil
}

func (r *fakeAuthRepo) GetUserByUsername(username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeAuthRepo) GetUserByID(id string) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNoRows
}

type fakeEmotionRepo struct {
	records map[string]*models.EmotionRecord // keyed by primary key
}

func newFakeEmotionRepo() *fakeEmotionRepo {
	return &fakeEmotionRepo{records: map[string]*models.EmotionRecord{}}
}

func (r *fakeEmotionRepo) matches(record *models.EmotionRecord, pred repository.Predicate) bool {
	if pred.ID != "" && record.ID != pred.ID {
		return false
	}
	if pred.CustomID != "" && (record.CustomID == nil || *record.CustomID != pred.CustomID) {
		return false
	}
	if pred.UserID != "" && record.UserID != pred.UserID {
		return false
	}
	return true
}

func (r *fakeEmotionRepo) Insert(record *models.EmotionRecord) error {
	record.ID = uuid.NewString()
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeEmotionRepo) FindOne(pred repository.Predicate) (*models.EmotionRecord, error) {
	for _, record := range r.records {
		if r.matches(record, pred) {
			copied := *record
			return &copied, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeEmotionRepo) FindMany(pred repository.Predicate) ([]*models.EmotionRecord, error) {
	out := []*models.EmotionRecord{}
	for _, record := range r.records {
		if r.matches(record, pred) {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEmotionRepo) UpdateFields(id string, fields map[string]interface{}) error {
	record, ok := r.records[id]
	if !ok {
		return repository.ErrNoRows
	}
	for column, value := range fields {
		switch column {
		case "emotion":
			record.Emotion = value.(string)
		case "emoji":
			record.Emoji = value.(string)
		case "annotations":
			record.Annotations = value.(models.Annotations)
		case "user_id":
			record.UserID = value.(string)
		case "custom_id":
			v := value.(string)
			record.CustomID = &v
		case "updated_at":
			record.UpdatedAt = value.(time.Time)
		default:
			return errors.New("unknown column " + column)
		}
	}
	return nil
}

func (r *fakeEmotionRepo) Delete(id string) error {
	if _, ok := r.records[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.records, id)
	return nil
}

// fakeClassifier returns a fixed label, or an error when set.
type fakeClassifier struct {
	label string
	err   error
}

func (c *fakeClassifier) Classify(ctx context.Context, image []byte, labels []string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.label, nil
}
