package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"emotion-service/internal/models"
	"emotion-service/internal/repository"

	"go.uber.org/zap"
)

// Classifier labels a face image with one of the declared emotions.
// Implementations must bound their own wait; a non-answer is an error,
// never an indefinite block.
type Classifier interface {
	Classify(ctx context.Context, image []byte, labels []string) (string, error)
}

type EmotionService interface {
	Create(ctx context.Context, principal *models.User, filename, contentType string, image []byte) (*models.EmotionRecord, error)
	List(principal *models.User, ownerFilter string) ([]*models.EmotionRecord, error)
	Get(principal *models.User, id string) (*models.EmotionRecord, error)
	Update(principal *models.User, id string, update *models.EmotionUpdate) (*models.EmotionRecord, error)
	Delete(principal *models.User, id string) error
}

type emotionService struct {
	repo       repository.EmotionRepository
	classifier Classifier
	validator  *ImageValidator
	taxonomy   *Taxonomy
	policy     *AccessPolicy
	logger     *zap.Logger
}

func NewEmotionService(repo repository.EmotionRepository, classifier Classifier, validator *ImageValidator, taxonomy *Taxonomy, policy *AccessPolicy, logger *zap.Logger) EmotionService {
	return &emotionService{
		repo:       repo,
		classifier: classifier,
		validator:  validator,
		taxonomy:   taxonomy,
		policy:     policy,
		logger:     logger,
	}
}

// Create validates and classifies an uploaded image and persists the
// result owned by the caller. Classifier output is untrusted: a label
// outside the taxonomy is stored as the unknown sentinel rather than
// failing the upload.
func (s *emotionService) Create(ctx context.Context, principal *models.User, filename, contentType string, image []byte) (*models.EmotionRecord, error) {
	if err := s.validator.Validate(image); err != nil {
		return nil, err
	}

	label, err := s.classifier.Classify(ctx, image, s.taxonomy.Labels())
	if err != nil {
		s.logger.Error("Classifier call failed", zap.String("filename", filename), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrClassificationUnavailable, err)
	}

	emotion, err := s.taxonomy.Validate(label)
	if err != nil {
		s.logger.Warn("Unexpected emotion from classifier", zap.String("emotion", label))
		emotion = EmotionUnknown
	}

	now := time.Now().UTC()
	record := &models.EmotionRecord{
		UserID:   principal.ID,
		Filename: filename,
		Emotion:  emotion,
		Emoji:    s.taxonomy.Emoji(emotion),
		Annotations: models.Annotations{
			"filename":     filename,
			"content_type": contentType,
			"image_size":   len(image),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(record); err != nil {
		s.logger.Error("Failed to insert emotion record", zap.Error(err))
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	s.logger.Info("Emotion record created",
		zap.String("record_id", record.ID),
		zap.String("user_id", record.UserID),
		zap.String("emotion", record.Emotion))
	return record, nil
}

func (s *emotionService) List(principal *models.User, ownerFilter string) ([]*models.EmotionRecord, error) {
	pred, err := s.policy.ScopeFor(principal, ownerFilter)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.FindMany(pred)
	if err != nil {
		s.logger.Error("Failed to list emotion records", zap.Error(err))
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// fetch resolves the identifier and loads the record, with ownership
// folded into the predicate for non-admins so a foreign record is
// indistinguishable from an absent one.
func (s *emotionService) fetch(principal *models.User, id string) (*models.EmotionRecord, error) {
	pred := ResolveRecordID(id)
	if !principal.IsAdmin() {
		pred.UserID = principal.ID
	}

	record, err := s.repo.FindOne(pred)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to fetch emotion record", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	return record, nil
}

func (s *emotionService) Get(principal *models.User, id string) (*models.EmotionRecord, error) {
	return s.fetch(principal, id)
}

func (s *emotionService) Update(principal *models.User, id string, update *models.EmotionUpdate) (*models.EmotionRecord, error) {
	record, err := s.fetch(principal, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.ScopeForMutation(principal, record); err != nil {
		return nil, err
	}
	if err := s.policy.CheckOwnerReassignment(principal, update); err != nil {
		s.logger.Warn("Rejected owner reassignment",
			zap.String("record_id", record.ID),
			zap.String("user_id", principal.ID))
		return nil, err
	}

	fields, err := MergeUpdate(record, update, s.policy.WritableFields(principal), s.taxonomy, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(record.ID, fields); err != nil {
		s.logger.Error("Failed to update emotion record", zap.String("record_id", record.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	updated, err := s.repo.FindOne(repository.Predicate{ID: record.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to reload record: %w", err)
	}

	s.logger.Info("Emotion record updated", zap.String("record_id", updated.ID))
	return updated, nil
}

func (s *emotionService) Delete(principal *models.User, id string) error {
	record, err := s.fetch(principal, id)
	if err != nil {
		return err
	}

	if err := s.policy.ScopeForMutation(principal, record); err != nil {
		return err
	}

	if err := s.repo.Delete(record.ID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrNotFound
		}
		s.logger.Error("Failed to delete emotion record", zap.String("record_id", record.ID), zap.Error(err))
		return fmt.Errorf("failed to delete record: %w", err)
	}

	s.logger.Info("Emotion record deleted", zap.String("record_id", record.ID))
	return nil
}
