package domain

import (
	"fmt"
	"time"
)

// Category labels a knowledge entry with the disaster domain it covers.
type Category string

// The curated corpus covers these eight disaster domains. Dynamic
// additions may introduce new categories; these are the known ones.
const (
	CategoryEarthquake   Category = "earthquake"
	CategoryTsunami      Category = "tsunami"
	CategoryFire         Category = "fire"
	CategoryEmergencyKit Category = "emergency_kit"
	CategoryFlood        Category = "flood"
	CategoryTornado      Category = "tornado"
	CategoryHurricane    Category = "hurricane"
	CategoryFirstAid     Category = "first_aid"
)

// KnowledgeSource marks how an entry reached the store.
type KnowledgeSource string

const (
	SourceStatic  KnowledgeSource = "static"
	SourceDynamic KnowledgeSource = "dynamic"
)

// KnowledgeEntry represents a single grounding document in the vector store.
// Entries are immutable once created.
type KnowledgeEntry struct {
	ID        string
	Content   string
	Embedding []float32
	Category  Category
	Source    KnowledgeSource
	Metadata  map[string]string
	CreatedAt time.Time
}

// NewKnowledgeEntry creates a new KnowledgeEntry instance
func NewKnowledgeEntry(
	id, content string,
	embedding []float32,
	category Category,
	source KnowledgeSource,
	metadata map[string]string,
	createdAt time.Time,
) *KnowledgeEntry {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &KnowledgeEntry{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Category:  category,
		Source:    source,
		Metadata:  metadata,
		CreatedAt: createdAt,
	}
}

// RetrievalResult pairs a knowledge entry with its similarity score for
// one query. It lives only for the duration of a single chat turn.
type RetrievalResult struct {
	Entry *KnowledgeEntry
	Score float32
}

// ValidateKnowledgeEntry validates a KnowledgeEntry instance.
// dimensions is the embedding dimensionality the store was created with;
// mixed dimensionality would silently corrupt similarity search, so a
// mismatch fails validation.
func ValidateKnowledgeEntry(k *KnowledgeEntry, dimensions int) error {
	if k == nil {
		return fmt.Errorf("knowledge entry cannot be nil")
	}

	if k.ID == "" {
		return fmt.Errorf("knowledge entry ID is required")
	}

	if k.Content == "" {
		return fmt.Errorf("knowledge entry Content is required")
	}

	if k.Category == "" {
		return fmt.Errorf("knowledge entry Category is required")
	}

	if !isValidKnowledgeSource(k.Source) {
		return fmt.Errorf("knowledge entry Source is invalid: %s", k.Source)
	}

	if dimensions > 0 && len(k.Embedding) != dimensions {
		return ErrEmbeddingDimensions
	}

	return nil
}

// IsKnownCategory reports whether c is one of the eight curated categories.
func IsKnownCategory(c Category) bool {
	switch c {
	case CategoryEarthquake, CategoryTsunami, CategoryFire, CategoryEmergencyKit,
		CategoryFlood, CategoryTornado, CategoryHurricane, CategoryFirstAid:
		return true
	}
	return false
}

// isValidKnowledgeSource checks if a KnowledgeSource is valid
func isValidKnowledgeSource(s KnowledgeSource) bool {
	switch s {
	case SourceStatic, SourceDynamic:
		return true
	}
	return false
}
