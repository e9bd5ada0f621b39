package memory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jtoberling/logos/engine/store"
)

// Sentinel errors let callers tell invalid input apart from backend
// failures. A plain err == nil check covers the simple success/failure case.
var (
	// ErrNoStore means the protocol was constructed without a vector store.
	ErrNoStore = errors.New("letter protocol: no vector store attached")

	// ErrInvalidLetter means a required field is blank.
	ErrInvalidLetter = errors.New("letter protocol: letter is missing required fields")

	// ErrNoValidLetters means a bulk store had nothing valid to persist.
	ErrNoValidLetters = errors.New("letter protocol: no valid letters to store")
)

// Statistics summarizes the essence collection.
type Statistics struct {
	TotalLetters     int    `json:"total_letters"`
	CollectionStatus string `json:"collection_status"`
	LastUpdated      string `json:"last_updated"`
}

// Protocol mediates all essence-collection access and enforces the letter
// contract: only valid letters are persisted, always through the canonical
// text format.
type Protocol struct {
	store store.Store
}

// NewProtocol creates a letter protocol. store may be nil for pure
// construction and formatting; persistence operations then return
// ErrNoStore.
func NewProtocol(s store.Store) *Protocol {
	return &Protocol{store: s}
}

// CreateLetter builds a letter in memory. No I/O, never fails.
func (p *Protocol) CreateLetter(interactionSummary, emotionalContext, lessonLearned, creator string) Letter {
	return NewLetter(interactionSummary, emotionalContext, lessonLearned, creator)
}

// StoreLetter persists one valid letter into the essence collection.
func (p *Protocol) StoreLetter(ctx context.Context, letter Letter) error {
	if p.store == nil {
		return ErrNoStore
	}
	if !letter.IsValid() {
		return ErrInvalidLetter
	}

	err := p.store.Upsert(ctx, store.EssenceCollection,
		[]string{letter.Format()},
		[]map[string]string{letter.payload()},
	)
	if err != nil {
		return fmt.Errorf("store letter %s: %w", letter.LetterID, err)
	}

	log.Printf("[MEMORY] Stored letter %s (creator=%s)", letter.LetterID, letter.Creator)
	return nil
}

// CreateAndStoreLetter composes CreateLetter and StoreLetter. The created
// letter is returned even when storing fails, so callers can report its ID.
func (p *Protocol) CreateAndStoreLetter(ctx context.Context, interactionSummary, emotionalContext, lessonLearned, creator string) (Letter, error) {
	letter := p.CreateLetter(interactionSummary, emotionalContext, lessonLearned, creator)
	return letter, p.StoreLetter(ctx, letter)
}

// StoreLettersBulk persists every valid letter in one upsert call.
// All-or-nothing: a backend failure stores none of them, and no
// partial-success reporting is attempted.
func (p *Protocol) StoreLettersBulk(ctx context.Context, letters []Letter) error {
	if p.store == nil {
		return ErrNoStore
	}

	valid := letters[:0:0]
	for _, letter := range letters {
		if letter.IsValid() {
			valid = append(valid, letter)
		}
	}
	if len(valid) == 0 {
		return ErrNoValidLetters
	}

	texts := make([]string, len(valid))
	metadatas := make([]map[string]string, len(valid))
	for i, letter := range valid {
		texts[i] = letter.Format()
		metadatas[i] = letter.payload()
	}

	if err := p.store.Upsert(ctx, store.EssenceCollection, texts, metadatas); err != nil {
		return fmt.Errorf("store %d letters: %w", len(valid), err)
	}

	log.Printf("[MEMORY] Stored %d letters in bulk (%d filtered out)", len(valid), len(letters)-len(valid))
	return nil
}

// GetRecentLetters retrieves letters by similarity to the "future_letter"
// marker. This is a semantic search, not a timestamp sort; "recent" is
// approximate under the current index contract.
func (p *Protocol) GetRecentLetters(ctx context.Context, limit int) ([]store.SearchResult, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}
	return p.store.Search(ctx, store.EssenceCollection, "future_letter", limit)
}

// GetLettersByCreator retrieves letters via a composed semantic query. The
// index applies no structured filter here; creator matching is soft.
func (p *Protocol) GetLettersByCreator(ctx context.Context, creator string, limit int) ([]store.SearchResult, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}
	query := fmt.Sprintf("future_letter creator:%s", creator)
	return p.store.Search(ctx, store.EssenceCollection, query, limit)
}

// Statistics reports essence-collection stats. Failures degrade silently to
// the zero-valued defaults; this call never errors.
func (p *Protocol) Statistics(ctx context.Context) Statistics {
	stats := Statistics{
		CollectionStatus: "unknown",
		LastUpdated:      time.Now().UTC().Format(time.RFC3339),
	}
	if p.store == nil {
		return stats
	}

	info := p.store.CollectionInfo(ctx, store.EssenceCollection)
	if info.Status == "" {
		return stats
	}
	stats.CollectionStatus = info.Status
	stats.TotalLetters = info.PointsCount
	return stats
}
