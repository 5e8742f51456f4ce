package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"emotion-service/internal/models"
	"emotion-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func newEmotionService(repo repository.EmotionRepository, cls Classifier) EmotionService {
	return NewEmotionService(repo, cls, NewImageValidator(10<<20), NewTaxonomy(), NewAccessPolicy(), zap.NewNop())
}

func TestCreateClassifiesAndPersists(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})

	record, err := svc.Create(context.Background(), alice, "selfie.png", "image/png", pngBytes(t))
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, alice.ID, record.UserID)
	assert.Equal(t, "happy", record.Emotion)
	assert.Equal(t, "😊", record.Emoji)
	assert.Equal(t, "selfie.png", record.Annotations["filename"])
	assert.Equal(t, "image/png", record.Annotations["content_type"])
	assert.False(t, record.UpdatedAt.Before(record.CreatedAt))
}

func TestCreateSubstitutesUnknownForUnrecognizedLabel(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "melancholic"})

	record, err := svc.Create(context.Background(), alice, "selfie.png", "image/png", pngBytes(t))
	require.NoError(t, err)

	assert.Equal(t, EmotionUnknown, record.Emotion)
	assert.Equal(t, EmojiUnknown, record.Emoji)
}

func TestCreateClassifierUnavailable(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{err: errors.New("timeout")})

	_, err := svc.Create(context.Background(), alice, "selfie.png", "image/png", pngBytes(t))
	assert.ErrorIs(t, err, ErrClassificationUnavailable)
	assert.Empty(t, repo.records)
}

func TestCreateRejectsInvalidPayloadBeforeClassifying(t *testing.T) {
	repo := newFakeEmotionRepo()
	cls := &fakeClassifier{err: errors.New("must not be called")}
	svc := newEmotionService(repo, cls)

	_, err := svc.Create(context.Background(), alice, "notes.txt", "text/plain", []byte("not an image"))

	var payloadErr *PayloadError
	assert.ErrorAs(t, err, &payloadErr)
}

func TestCreateRejectsOversizedPayload(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := NewEmotionService(repo, &fakeClassifier{label: "happy"},
		NewImageValidator(8), NewTaxonomy(), NewAccessPolicy(), zap.NewNop())

	_, err := svc.Create(context.Background(), alice, "selfie.png", "image/png", pngBytes(t))

	var payloadErr *PayloadError
	assert.ErrorAs(t, err, &payloadErr)
}

func seedRecord(t *testing.T, repo *fakeEmotionRepo, owner *models.User, emotion string) *models.EmotionRecord {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	record := &models.EmotionRecord{
		UserID:      owner.ID,
		Filename:    "seed.png",
		Emotion:     emotion,
		Emoji:       NewTaxonomy().Emoji(emotion),
		Annotations: models.Annotations{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Insert(record))
	return record
}

func TestListScopesByRole(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	seedRecord(t, repo, alice, "happy")
	seedRecord(t, repo, alice, "sad")
	seedRecord(t, repo, bob, "angry")

	own, err := svc.List(alice, "")
	require.NoError(t, err)
	assert.Len(t, own, 2)

	all, err := svc.List(admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.List(admin, bob.ID)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	_, err = svc.List(alice, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListEmptyResultIsNotAnError(t *testing.T) {
	svc := newEmotionService(newFakeEmotionRepo(), &fakeClassifier{label: "happy"})

	records, err := svc.List(alice, "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetByPrimaryAndCustomKey(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")
	customID := "my-selfie"
	repo.records[record.ID].CustomID = &customID

	byPK, err := svc.Get(alice, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, byPK.ID)

	byCustom, err := svc.Get(alice, "my-selfie")
	require.NoError(t, err)
	assert.Equal(t, record.ID, byCustom.ID)
}

func TestGetForeignRecordIsNotFound(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")

	// Existence is not confirmed to other users.
	_, err := svc.Get(bob, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Admin sees everything.
	_, err = svc.Get(admin, record.ID)
	assert.NoError(t, err)
}

func TestUpdateEmotionDerivesEmoji(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")

	updated, err := svc.Update(alice, record.ID, &models.EmotionUpdate{Emotion: strPtr("SAD")})
	require.NoError(t, err)

	assert.Equal(t, "sad", updated.Emotion)
	assert.Equal(t, "😢", updated.Emoji)
	assert.True(t, updated.UpdatedAt.After(record.UpdatedAt))
}

func TestUpdateInvalidEmotionLeavesRecordUnchanged(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")

	_, err := svc.Update(alice, record.ID, &models.EmotionUpdate{Emotion: strPtr("angrrryyyy")})

	var labelErr *InvalidLabelError
	require.ErrorAs(t, err, &labelErr)

	stored := repo.records[record.ID]
	assert.Equal(t, "happy", stored.Emotion)
	assert.Equal(t, record.UpdatedAt, stored.UpdatedAt)
}

func TestUpdateForeignOwnerIDIsForbidden(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")
	foreign := bob.ID

	_, err := svc.Update(alice, record.ID, &models.EmotionUpdate{
		Emotion: strPtr("sad"),
		UserID:  &foreign,
	})
	require.ErrorIs(t, err, ErrForbidden)

	// Nothing was persisted, not even updated_at.
	stored := repo.records[record.ID]
	assert.Equal(t, "happy", stored.Emotion)
	assert.Equal(t, record.UpdatedAt, stored.UpdatedAt)
}

func TestAdminCanReassignOwner(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")
	target := bob.ID

	updated, err := svc.Update(admin, record.ID, &models.EmotionUpdate{UserID: &target})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, updated.UserID)
}

func TestUpdateAnnotationsOverlay(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")
	repo.records[record.ID].Annotations = models.Annotations{"camera": "front", "retries": 1}

	updated, err := svc.Update(alice, record.ID, &models.EmotionUpdate{
		Annotations: models.Annotations{"retries": 2, "reviewed": true},
	})
	require.NoError(t, err)

	assert.Equal(t, "front", updated.Annotations["camera"])
	assert.Equal(t, 2, updated.Annotations["retries"])
	assert.Equal(t, true, updated.Annotations["reviewed"])
}

func TestUpdateForeignRecordIsNotFound(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")

	_, err := svc.Update(bob, record.ID, &models.EmotionUpdate{Emotion: strPtr("sad")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newFakeEmotionRepo()
	svc := newEmotionService(repo, &fakeClassifier{label: "happy"})
	record := seedRecord(t, repo, alice, "happy")

	// A foreign record is invisible, never silently deleted.
	err := svc.Delete(bob, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, repo.records, 1)

	require.NoError(t, svc.Delete(alice, record.ID))
	assert.Empty(t, repo.records)

	err = svc.Delete(alice, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
