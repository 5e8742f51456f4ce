package service

import (
	"emotion-service/internal/repository"

	"github.com/google/uuid"
)

// ResolveRecordID maps an externally supplied identifier onto a lookup
// predicate. Identifiers that parse as store-assigned UUIDs look up by
// primary key; everything else falls back to the caller-chosen custom
// key. Resolution is total: a parse failure is a fallback signal, not
// an error.
func ResolveRecordID(id string) repository.Predicate {
	if parsed, err := uuid.Parse(id); err == nil {
		return repository.Predicate{ID: parsed.String()}
	}
	return repository.Predicate{CustomID: id}
}
