package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// SavedItem is a user-saved artifact: a note, a reusable prompt, or a
// persona description.
type SavedItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Artifacts manages saved items on top of the bucketed store. Saving is
// always free of charge.
type Artifacts struct {
	store Store
	clock Clock
}

// NewArtifacts creates an artifact manager.
func NewArtifacts(store Store, clock Clock) *Artifacts {
	return &Artifacts{store: store, clock: clock}
}

// SaveNote saves text into the notes bucket and returns the new item.
func (a *Artifacts) SaveNote(text string) (SavedItem, error) {
	return a.save(BucketNotes, text)
}

// SavePrompt saves text into the prompts bucket and returns the new item.
func (a *Artifacts) SavePrompt(text string) (SavedItem, error) {
	return a.save(BucketPrompts, text)
}

// SavePersona saves text into the personas bucket and returns the new item.
func (a *Artifacts) SavePersona(text string) (SavedItem, error) {
	return a.save(BucketPersonas, text)
}

func (a *Artifacts) save(bucket, text string) (SavedItem, error) {
	now := a.clock.Now()
	item := SavedItem{
		ID:        fmt.Sprintf("%s_%d", bucket, now.UnixMilli()),
		Text:      text,
		CreatedAt: now,
	}
	data, err := json.Marshal(item)
	if err != nil {
		return SavedItem{}, fmt.Errorf("failed to encode item: %w", err)
	}
	if err := a.store.Set(bucket, item.ID, string(data)); err != nil {
		return SavedItem{}, err
	}
	return item, nil
}

// List returns all items in a bucket, most recent first.
func (a *Artifacts) List(bucket string) ([]SavedItem, error) {
	pairs, err := a.store.List(bucket)
	if err != nil {
		return nil, err
	}
	items := make([]SavedItem, 0, len(pairs))
	for _, pair := range pairs {
		var item SavedItem
		if err := json.Unmarshal([]byte(pair.Value), &item); err != nil {
			LogWarn("skipping undecodable item %s/%s: %v", bucket, pair.Key, err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete removes one item by ID.
func (a *Artifacts) Delete(bucket, id string) error {
	return a.store.Delete(bucket, id)
}
