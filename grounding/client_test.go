package grounding

import (
	"context"
	"errors"
	"testing"
)

// failingStore always errors, for exercising the swallow path.
type failingStore struct{}

func (failingStore) Retrieve(context.Context, Query) ([]Document, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) Upsert(context.Context, Document) error {
	return errors.New("store unavailable")
}

func TestClientRetrieve(t *testing.T) {
	store := NewMemoryStore()
	seedTestDocs(t, store)
	client := NewClient(store)

	got := client.Retrieve(context.Background(), "professional tone", "linkedin", "", 3)
	if len(got) == 0 {
		t.Fatal("no documents retrieved")
	}
	if len(got) > 3 {
		t.Errorf("got %d documents, want at most 3", len(got))
	}
}

func TestClientRetrieveSwallowsFailure(t *testing.T) {
	client := NewClient(failingStore{})

	got := client.Retrieve(context.Background(), "anything", "", "", 5)
	if got != nil {
		t.Errorf("Retrieve() = %v, want nil on store failure", got)
	}
}

func TestClientRetrieveDefaultTopK(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 10; i++ {
		doc := Document{ID: string(rune('a' + i)), Title: "clarity", Text: "clear writing"}
		if err := store.Upsert(context.Background(), doc); err != nil {
			t.Fatal(err)
		}
	}
	client := NewClient(store)

	got := client.Retrieve(context.Background(), "clear writing", "", "", 0)
	if len(got) != DefaultTopK {
		t.Errorf("got %d documents, want default %d", len(got), DefaultTopK)
	}
}
