package database

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/locvowork/company_registry/internal/domain"
	"github.com/olivere/elastic/v7"
)

const elasticBackend = "elasticsearch"

// EmployeeDoc is the Elasticsearch document for one record.
type EmployeeDoc struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
	Kind       string  `json:"kind"`
	Factor     float64 `json:"factor"`
}

func docFromDescriptor(d domain.Descriptor) EmployeeDoc {
	return EmployeeDoc{
		ID:         d.ID,
		Name:       d.Name,
		Department: d.Department,
		Salary:     d.Salary,
		Kind:       string(d.Kind),
		Factor:     d.Factor,
	}
}

func (doc EmployeeDoc) descriptor() domain.Descriptor {
	return domain.Descriptor{
		ID:         doc.ID,
		Name:       doc.Name,
		Department: doc.Department,
		Salary:     doc.Salary,
		Kind:       domain.Kind(doc.Kind),
		Factor:     doc.Factor,
	}
}

// ElasticSearchClient wraps olivere/elastic client and stores the company
// snapshot as one document per record.
type ElasticSearchClient struct {
	client *elastic.Client
	index  string
}

// NewElasticSearchClient creates a new client for Elasticsearch 7.x.
func NewElasticSearchClient(url, index string) (*ElasticSearchClient, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &ElasticSearchClient{client: client, index: index}, nil
}

// Save replaces the index contents with the given records.
func (es *ElasticSearchClient) Save(ctx context.Context, records []domain.Descriptor) error {
	exists, err := es.client.IndexExists(es.index).Do(ctx)
	if err != nil {
		return domain.NewPersistenceError(elasticBackend, "save", err)
	}
	if exists {
		_, err := es.client.DeleteByQuery(es.index).
			Query(elastic.NewMatchAllQuery()).
			Refresh("true").
			Do(ctx)
		if err != nil {
			return domain.NewPersistenceError(elasticBackend, "save", fmt.Errorf("clearing index %s: %w", es.index, err))
		}
	}

	bulkRequest := es.client.Bulk()
	for _, d := range records {
		req := elastic.NewBulkIndexRequest().
			Index(es.index).
			Id(strconv.Itoa(d.ID)).
			Doc(docFromDescriptor(d))
		bulkRequest = bulkRequest.Add(req)
	}

	if bulkRequest.NumberOfActions() == 0 {
		return nil
	}

	bulkResponse, err := bulkRequest.Refresh("true").Do(ctx)
	if err != nil {
		return domain.NewPersistenceError(elasticBackend, "save", fmt.Errorf("bulk index failed: %w", err))
	}

	if bulkResponse.Errors {
		for _, item := range bulkResponse.Failed() {
			if item.Error != nil {
				return domain.NewPersistenceError(elasticBackend, "save",
					fmt.Errorf("bulk item %s failed: %s", item.Id, item.Error.Reason))
			}
		}
	}

	return nil
}

// Load scrolls through every document of the index. A missing index reads as
// an empty snapshot.
func (es *ElasticSearchClient) Load(ctx context.Context) ([]domain.Descriptor, error) {
	records := []domain.Descriptor{}

	scroll := es.client.Scroll(es.index).
		Size(1000).
		KeepAlive("2m").
		Sort("_doc", true)
	defer scroll.Clear(context.Background())

	for {
		results, err := scroll.Do(ctx)
		if err == io.EOF {
			break
		}
		if elastic.IsNotFound(err) {
			return records, nil
		}
		if err != nil {
			return nil, domain.NewPersistenceError(elasticBackend, "load", fmt.Errorf("scroll error: %w", err))
		}

		for _, hit := range results.Hits.Hits {
			var doc EmployeeDoc
			if err := json.Unmarshal(hit.Source, &doc); err != nil {
				return nil, domain.NewPersistenceError(elasticBackend, "load",
					fmt.Errorf("failed to unmarshal document %s: %w", hit.Id, err))
			}
			records = append(records, doc.descriptor())
		}
	}

	return records, nil
}
