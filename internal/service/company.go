package service

import (
	"context"
	"sort"
	"sync"

	"github.com/locvowork/company_registry/internal/domain"
	"github.com/locvowork/company_registry/internal/logger"
	"github.com/locvowork/company_registry/internal/repository"
)

// Company keeps a record store and two secondary indexes over it: records by
// department and managers by factor. Buckets hold the same pointers as the
// store, exist only while non-empty, and are updated in the same critical
// section as the store so readers never see them disagree.
type Company struct {
	mu             sync.RWMutex
	store          *repository.RecordStore
	byDepartment   map[string][]*domain.Employee
	managersFactor map[float64][]*domain.Employee
}

// NewCompany creates an empty company.
func NewCompany() *Company {
	return &Company{
		store:          repository.NewRecordStore(),
		byDepartment:   make(map[string][]*domain.Employee),
		managersFactor: make(map[float64][]*domain.Employee),
	}
}

// AddEmployee validates e and inserts it into the store and both indexes.
func (c *Company) AddEmployee(ctx context.Context, e *domain.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Add(e); err != nil {
		return err
	}
	c.addIndexes(e)

	logger.DebugLog(ctx, "employee %d added to department %s", e.ID(), e.Department())
	return nil
}

func (c *Company) addIndexes(e *domain.Employee) {
	c.byDepartment[e.Department()] = append(c.byDepartment[e.Department()], e)
	if e.IsManager() {
		c.managersFactor[e.Factor()] = append(c.managersFactor[e.Factor()], e)
	}
}

// GetEmployee returns the record stored under id, or nil.
func (c *Company) GetEmployee(id int) *domain.Employee {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, _ := c.store.Get(id)
	return e
}

// RemoveEmployee deletes the record stored under id from the store and both
// indexes and returns it.
func (c *Company) RemoveEmployee(ctx context.Context, id int) (*domain.Employee, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.store.Remove(id)
	if err != nil {
		return nil, err
	}
	removeFromBucket(c.byDepartment, e.Department(), e)
	if e.IsManager() {
		removeFromBucket(c.managersFactor, e.Factor(), e)
	}

	logger.DebugLog(ctx, "employee %d removed from department %s", e.ID(), e.Department())
	return e, nil
}

// removeFromBucket drops e from the bucket under key and deletes the bucket
// once it is empty.
func removeFromBucket[K comparable](index map[K][]*domain.Employee, key K, e *domain.Employee) {
	bucket, ok := index[key]
	if !ok {
		return
	}
	kept := make([]*domain.Employee, 0, len(bucket))
	for _, other := range bucket {
		if other != e {
			kept = append(kept, other)
		}
	}
	if len(kept) == 0 {
		delete(index, key)
		return
	}
	index[key] = kept
}

// GetDepartmentBudget sums the computed salaries of the department's records.
// Unknown departments have a budget of 0.
func (c *Company) GetDepartmentBudget(department string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total float64
	for _, e := range c.byDepartment[department] {
		total += e.ComputeSalary()
	}
	return total
}

// GetDepartments returns the departments that have records, sorted ascending.
func (c *Company) GetDepartments() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	departments := make([]string, 0, len(c.byDepartment))
	for d := range c.byDepartment {
		departments = append(departments, d)
	}
	sort.Strings(departments)
	return departments
}

// GetManagersWithMostFactor returns every manager whose factor equals the
// highest factor present. Factors are compared with strict equality.
func (c *Company) GetManagersWithMostFactor() []*domain.Employee {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.managersFactor) == 0 {
		return []*domain.Employee{}
	}
	first := true
	var maxFactor float64
	for f := range c.managersFactor {
		if first || f > maxFactor {
			maxFactor = f
			first = false
		}
	}
	bucket := c.managersFactor[maxFactor]
	out := make([]*domain.Employee, len(bucket))
	copy(out, bucket)
	return out
}

// Employees returns every stored record ordered by id.
func (c *Company) Employees() []*domain.Employee {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.List()
}

func (c *Company) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Len()
}

// Clear drops every record and index bucket.
func (c *Company) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = repository.NewRecordStore()
	c.byDepartment = make(map[string][]*domain.Employee)
	c.managersFactor = make(map[float64][]*domain.Employee)
}
