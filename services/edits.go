package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tripbazaar/cache"
	"tripbazaar/models"

	"github.com/google/uuid"
)

// Edit lifecycle:
//
//	preview --apply--> applied   (stored delta written to the database)
//	        --reject--> rejected (no write)
//	        --rollback--> not supported (501)
//
// Previews are persisted server-side keyed by id; apply replays the stored
// delta, so a caller can never smuggle a different field map under a
// previewed edit id.
const (
	EditStatusPreview  = "preview"
	EditStatusApplied  = "applied"
	EditStatusRejected = "rejected"
)

// Edit is the preview envelope. ProposedContent always equals
// OriginalContent with exactly the keys in Changes overwritten.
type Edit struct {
	ID              string            `json:"id"`
	TargetType      models.TargetType `json:"targetType"`
	TargetID        int64             `json:"targetId"`
	OriginalContent map[string]any    `json:"originalContent"`
	ProposedContent map[string]any    `json:"proposedContent"`
	Description     string            `json:"description"`
	Status          string            `json:"status"`
	CreatedBy       string            `json:"createdBy"`
	CreatedAt       time.Time         `json:"createdAt"`
	Changes         []string          `json:"changes"`
	ChangedFields   Delta             `json:"changedFields"`
}

// NewEditPreview builds the preview envelope for one parsed delta.
func NewEditPreview(original models.Record, changes Delta, command, createdBy string) (*Edit, error) {
	originalContent, err := RecordToMap(original)
	if err != nil {
		return nil, err
	}
	proposed, err := MergeDelta(original, changes)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(changes))
	for k := range changes {
		fields = append(fields, k)
	}

	if createdBy == "" {
		createdBy = "anonymous"
	}

	return &Edit{
		ID:              fmt.Sprintf("EDIT_%s", uuid.New().String()),
		TargetType:      original.Target(),
		TargetID:        original.RecordID(),
		OriginalContent: originalContent,
		ProposedContent: proposed,
		Description:     command,
		Status:          EditStatusPreview,
		CreatedBy:       createdBy,
		CreatedAt:       time.Now().UTC(),
		Changes:         fields,
		ChangedFields:   changes,
	}, nil
}

// EditStore keeps previews alive between the preview call and the follow-up
// apply/reject call.
type EditStore struct {
	store cache.Store
	ttl   time.Duration
}

func NewEditStore(store cache.Store, ttl time.Duration) *EditStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &EditStore{store: store, ttl: ttl}
}

func editKey(id string) string { return "edit:" + id }

func (s *EditStore) Save(ctx context.Context, edit *Edit) error {
	raw, err := json.Marshal(edit)
	if err != nil {
		return fmt.Errorf("marshal edit %s: %w", edit.ID, err)
	}
	return s.store.Set(ctx, editKey(edit.ID), string(raw), s.ttl)
}

// Get returns the stored preview, or cache.ErrMiss when the id is unknown
// or the preview has expired.
func (s *EditStore) Get(ctx context.Context, id string) (*Edit, error) {
	raw, err := s.store.Get(ctx, editKey(id))
	if err != nil {
		return nil, err
	}
	var edit Edit
	if err := json.Unmarshal([]byte(raw), &edit); err != nil {
		return nil, fmt.Errorf("unmarshal edit %s: %w", id, err)
	}
	return &edit, nil
}

func (s *EditStore) Delete(ctx context.Context, id string) error {
	return s.store.Del(ctx, editKey(id))
}

// RecordToMap converts a typed record to its JSON object form.
func RecordToMap(record models.Record) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
