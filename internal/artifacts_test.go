package internal

import (
	"testing"
	"time"
)

func TestArtifactsSaveAndList(t *testing.T) {
	clock := NewTestClock()
	artifacts := NewArtifacts(NewMemoryStore(), clock)

	item, err := artifacts.SaveNote("remember the milk")
	if err != nil {
		t.Fatalf("SaveNote() error = %v", err)
	}
	if item.ID == "" {
		t.Error("saved item has no id")
	}
	if !item.CreatedAt.Equal(clock.Now()) {
		t.Error("CreatedAt not taken from the clock")
	}

	items, err := artifacts.List(BucketNotes)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].Text != "remember the milk" {
		t.Errorf("List() = %v", items)
	}
}

func TestArtifactsBucketsRouteCorrectly(t *testing.T) {
	clock := NewTestClock()
	artifacts := NewArtifacts(NewMemoryStore(), clock)

	artifacts.SaveNote("a note")
	clock.Advance(time.Millisecond)
	artifacts.SavePrompt("a prompt")
	clock.Advance(time.Millisecond)
	artifacts.SavePersona("a persona")

	for _, tt := range []struct {
		bucket string
		want   string
	}{
		{BucketNotes, "a note"},
		{BucketPrompts, "a prompt"},
		{BucketPersonas, "a persona"},
	} {
		items, err := artifacts.List(tt.bucket)
		if err != nil {
			t.Fatalf("List(%s) error = %v", tt.bucket, err)
		}
		if len(items) != 1 || items[0].Text != tt.want {
			t.Errorf("List(%s) = %v, want one item %q", tt.bucket, items, tt.want)
		}
	}
}

func TestArtifactsDelete(t *testing.T) {
	artifacts := NewArtifacts(NewMemoryStore(), NewTestClock())

	item, _ := artifacts.SavePrompt("drop me")
	if err := artifacts.Delete(BucketPrompts, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	items, _ := artifacts.List(BucketPrompts)
	if len(items) != 0 {
		t.Errorf("List() = %v, want empty after delete", items)
	}
}

func TestArtifactsListSkipsCorruptEntries(t *testing.T) {
	store := NewMemoryStore()
	store.Set(BucketNotes, "bad", "{not json")

	artifacts := NewArtifacts(store, NewTestClock())
	artifacts.SaveNote("good")

	items, err := artifacts.List(BucketNotes)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].Text != "good" {
		t.Errorf("List() = %v, want only the decodable item", items)
	}
}
