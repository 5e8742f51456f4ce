package service

import (
	"emotion-service/internal/models"
	"emotion-service/internal/repository"
)

// Writable field names, as staged by the update merger.
const (
	FieldEmotion     = "emotion"
	FieldAnnotations = "annotations"
	FieldUserID      = "user_id"
)

// FieldSet is the set of record fields a principal may write.
type FieldSet map[string]bool

func (f FieldSet) Contains(field string) bool {
	return f[field]
}

// AccessPolicy shapes queries and mutations by role: admins are
// unrestricted, users are scoped to records they own.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// ScopeFor produces the query predicate for list and read operations.
// A non-admin naming another owner in the filter is rejected rather
// than silently re-scoped to themselves.
func (p *AccessPolicy) ScopeFor(principal *models.User, ownerFilter string) (repository.Predicate, error) {
	if principal.IsAdmin() {
		return repository.Predicate{UserID: ownerFilter}, nil
	}
	if ownerFilter != "" && ownerFilter != principal.ID {
		return repository.Predicate{}, ErrForbidden
	}
	return repository.Predicate{UserID: principal.ID}, nil
}

// ScopeForMutation authorizes an update or delete of an existing record.
func (p *AccessPolicy) ScopeForMutation(principal *models.User, existing *models.EmotionRecord) error {
	if principal.IsAdmin() {
		return nil
	}
	if existing.UserID != principal.ID {
		return ErrForbidden
	}
	return nil
}

// WritableFields returns the fields the principal may write. Only
// admins may reassign ownership.
func (p *AccessPolicy) WritableFields(principal *models.User) FieldSet {
	fields := FieldSet{FieldEmotion: true, FieldAnnotations: true}
	if principal.IsAdmin() {
		fields[FieldUserID] = true
	}
	return fields
}

// CheckOwnerReassignment rejects the whole update when a non-admin
// submits a user_id other than their own. This is a hard failure, not
// a field to be dropped.
func (p *AccessPolicy) CheckOwnerReassignment(principal *models.User, update *models.EmotionUpdate) error {
	if principal.IsAdmin() || update.UserID == nil {
		return nil
	}
	if *update.UserID != principal.ID {
		return ErrForbidden
	}
	return nil
}
