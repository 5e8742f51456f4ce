package service

import (
	"sort"
	"strings"
)

// EmotionUnknown is the sentinel stored when the classifier returns a
// label outside the taxonomy. It is not itself a valid update value.
const (
	EmotionUnknown = "unknown"
	EmojiUnknown   = "❓"
)

// emojiMap is the fixed emotion taxonomy: every recognized emotion maps
// to exactly one emoji.
var emojiMap = map[string]string{
	"happy":     "😊",
	"sad":       "😢",
	"angry":     "😡",
	"surprised": "😮",
	"neutral":   "😐",
	"fearful":   "😨",
	"disgusted": "😣",
}

// Taxonomy validates emotion labels and derives their emoji. It is
// pure and safe for concurrent use.
type Taxonomy struct{}

func NewTaxonomy() *Taxonomy {
	return &Taxonomy{}
}

// Labels returns the recognized emotions in stable order.
func (t *Taxonomy) Labels() []string {
	labels := make([]string, 0, len(emojiMap))
	for label := range emojiMap {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Validate matches the candidate case-insensitively against the
// taxonomy and returns the canonical lowercase label.
func (t *Taxonomy) Validate(candidate string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(candidate))
	if _, ok := emojiMap[label]; !ok {
		return "", &InvalidLabelError{Candidate: candidate, Allowed: t.Labels()}
	}
	return label, nil
}

// Emoji derives the emoji for a label. Unrecognized input yields the
// unknown sentinel, so the function is total.
func (t *Taxonomy) Emoji(label string) string {
	if emoji, ok := emojiMap[label]; ok {
		return emoji
	}
	return EmojiUnknown
}
