package repository

import (
	"context"
	"errors"
	"event-catalog/internal/domain"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const CollectionEvents = "events"

type firestoreRepo struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreRepository reads active events from collection, ordered by date
// then time.
func NewFirestoreRepository(client *firestore.Client, collection string) CatalogRepository {
	if collection == "" {
		collection = CollectionEvents
	}
	return &firestoreRepo{client: client, collection: collection}
}

func (r *firestoreRepo) Name() string {
	return "firestore:" + r.collection
}

func (r *firestoreRepo) List(ctx context.Context) ([]domain.Event, error) {
	q := r.client.Collection(r.collection).
		Where("is_active", "==", true).
		OrderBy("date", firestore.Asc).
		OrderBy("time", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	events := make([]domain.Event, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("collection %s: %w", r.collection, domain.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", r.collection, err)
		}

		var e domain.Event
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", r.collection, doc.Ref.ID, err)
		}
		if e.ID == "" {
			e.ID = doc.Ref.ID
		}
		events = append(events, e)
	}

	return events, nil
}
