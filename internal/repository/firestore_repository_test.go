package repository_test

import (
	"context"
	"event-catalog/internal/domain"
	"event-catalog/internal/repository"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
)

func withFirestore(t *testing.T, fn func(t *testing.T, client *firestore.Client, collection string)) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("Skipping integration test: FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "local-project-id")
	if err != nil {
		t.Fatalf("Failed to create firestore client: %v", err)
	}
	defer client.Close()

	collection := "events_test_" + t.Name()
	fn(t, client, collection)
}

func TestFirestoreRepository_ListActiveOrdered(t *testing.T) {
	withFirestore(t, func(t *testing.T, client *firestore.Client, collection string) {
		ctx := context.Background()

		seed := []struct {
			doc    string
			event  domain.Event
			active bool
		}{
			{"b", domain.Event{ID: "b", Title: "Later", Date: "2025-07-11", Time: "18:00"}, true},
			{"a", domain.Event{ID: "a", Title: "Earlier", Date: "2025-07-09", Time: "12:00"}, true},
			{"c", domain.Event{ID: "c", Title: "Same day, later slot", Date: "2025-07-09", Time: "19:00"}, true},
			{"d", domain.Event{ID: "d", Title: "Gone", Date: "2025-07-01"}, false},
		}

		for _, s := range seed {
			doc := map[string]interface{}{
				"id":        s.event.ID,
				"title":     s.event.Title,
				"date":      s.event.Date,
				"time":      s.event.Time,
				"is_active": s.active,
			}
			if _, err := client.Collection(collection).Doc(s.doc).Set(ctx, doc); err != nil {
				t.Fatalf("seed %s: %v", s.doc, err)
			}
		}
		defer func() {
			for _, s := range seed {
				_, _ = client.Collection(collection).Doc(s.doc).Delete(ctx)
			}
		}()

		events, err := repository.NewFirestoreRepository(client, collection).List(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		var got []string
		for _, e := range events {
			got = append(got, e.ID)
		}
		want := []string{"a", "c", "b"}
		if len(got) != len(want) {
			t.Fatalf("Expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Expected %v, got %v", want, got)
				break
			}
		}
	})
}
