package database

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/company_registry/internal/domain"
)

const (
	datastoreBackend = "datastore"
	recordKind       = "EmployeeRecord"
	// Datastore rejects multi-operations over 500 entities.
	datastoreBatchSize = 500
)

// DatastoreClient wraps the cloud datastore client
type DatastoreClient struct {
	client *datastore.Client
}

// NewDatastoreClient connects to the given project.
func NewDatastoreClient(ctx context.Context, projectID string) (*DatastoreClient, error) {
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return &DatastoreClient{client: client}, nil
}

func recordKey(id int) *datastore.Key {
	return datastore.NameKey(recordKind, strconv.Itoa(id), nil)
}

// Save deletes the previous snapshot entities and writes the new ones.
func (dc *DatastoreClient) Save(ctx context.Context, records []domain.Descriptor) error {
	if dc == nil || dc.client == nil {
		return domain.NewPersistenceError(datastoreBackend, "save", fmt.Errorf("datastore client is nil"))
	}

	oldKeys, err := dc.client.GetAll(ctx, datastore.NewQuery(recordKind).KeysOnly(), nil)
	if err != nil {
		return domain.NewPersistenceError(datastoreBackend, "save", err)
	}
	for start := 0; start < len(oldKeys); start += datastoreBatchSize {
		end := min(start+datastoreBatchSize, len(oldKeys))
		if err := dc.client.DeleteMulti(ctx, oldKeys[start:end]); err != nil {
			return domain.NewPersistenceError(datastoreBackend, "save", err)
		}
	}

	for start := 0; start < len(records); start += datastoreBatchSize {
		end := min(start+datastoreBatchSize, len(records))
		batch := records[start:end]
		keys := make([]*datastore.Key, len(batch))
		for i := range batch {
			keys[i] = recordKey(batch[i].ID)
		}
		if _, err := dc.client.PutMulti(ctx, keys, batch); err != nil {
			return domain.NewPersistenceError(datastoreBackend, "save", err)
		}
	}
	return nil
}

// Load fetches every snapshot entity ordered by id.
func (dc *DatastoreClient) Load(ctx context.Context) ([]domain.Descriptor, error) {
	if dc == nil || dc.client == nil {
		return nil, domain.NewPersistenceError(datastoreBackend, "load", fmt.Errorf("datastore client is nil"))
	}

	var records []domain.Descriptor
	q := datastore.NewQuery(recordKind).Order("ID")
	if _, err := dc.client.GetAll(ctx, q, &records); err != nil {
		return nil, domain.NewPersistenceError(datastoreBackend, "load", err)
	}
	return records, nil
}

func (dc *DatastoreClient) Close() error {
	if dc == nil || dc.client == nil {
		return nil
	}
	return dc.client.Close()
}
