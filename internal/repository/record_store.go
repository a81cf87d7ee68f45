package repository

import (
	"sort"

	"github.com/locvowork/company_registry/internal/domain"
)

// RecordStore owns the canonical set of records keyed by id.
// It is not safe for concurrent use; the company serializes access to it.
type RecordStore struct {
	records map[int]*domain.Employee
}

// NewRecordStore creates an empty store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[int]*domain.Employee)}
}

// Add inserts e, failing with a DuplicateIdError when its id is taken.
func (s *RecordStore) Add(e *domain.Employee) error {
	if _, ok := s.records[e.ID()]; ok {
		return &domain.DuplicateIdError{ID: e.ID()}
	}
	s.records[e.ID()] = e
	return nil
}

// Get returns the record stored under id.
func (s *RecordStore) Get(id int) (*domain.Employee, bool) {
	e, ok := s.records[id]
	return e, ok
}

// Remove deletes and returns the record stored under id.
func (s *RecordStore) Remove(id int) (*domain.Employee, error) {
	e, ok := s.records[id]
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	delete(s.records, id)
	return e, nil
}

func (s *RecordStore) Len() int {
	return len(s.records)
}

// List returns every record ordered by id.
func (s *RecordStore) List() []*domain.Employee {
	out := make([]*domain.Employee, 0, len(s.records))
	for _, e := range s.records {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
