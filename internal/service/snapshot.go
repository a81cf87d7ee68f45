package service

import (
	"context"
	"fmt"

	"github.com/locvowork/company_registry/internal/domain"
	"github.com/locvowork/company_registry/internal/logger"
)

// RestoreError reports the record that stopped a restore. Records before
// Index were inserted and stay in the company; the failing record was not.
type RestoreError struct {
	Index   int
	ID      int
	Applied int
	Err     error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restore stopped at record %d (id %d) after %d applied: %v", e.Index, e.ID, e.Applied, e.Err)
}

func (e *RestoreError) Unwrap() error { return e.Err }

// Snapshot returns the descriptors of every stored record ordered by id.
func (c *Company) Snapshot() []domain.Descriptor {
	employees := c.Employees()
	out := make([]domain.Descriptor, len(employees))
	for i, e := range employees {
		out[i] = e.Descriptor()
	}
	return out
}

// Save writes every stored record through s and reports how many were
// written.
func (c *Company) Save(ctx context.Context, s domain.Snapshotter) (int, error) {
	records := c.Snapshot()
	if err := s.Save(ctx, records); err != nil {
		logger.ErrorLog(ctx, "failed to save company snapshot", err)
		return 0, err
	}
	logger.InfoLog(ctx, "saved %d employee records", len(records))
	return len(records), nil
}

// Restore loads records from s and adds them one by one. Every descriptor is
// decoded before the first insert, so malformed data leaves the company
// untouched. Restoring into a company that already holds the same ids fails
// with a duplicate id error; callers use a fresh or cleared company.
func (c *Company) Restore(ctx context.Context, s domain.Snapshotter) (int, error) {
	records, err := s.Load(ctx)
	if err != nil {
		logger.ErrorLog(ctx, "failed to load company snapshot", err)
		return 0, err
	}

	employees := make([]*domain.Employee, len(records))
	for i, d := range records {
		e, err := domain.FromDescriptor(d)
		if err != nil {
			return 0, &RestoreError{Index: i, ID: d.ID, Err: domain.NewPersistenceError("snapshot", "decode", err)}
		}
		employees[i] = e
	}

	for i, e := range employees {
		if err := c.AddEmployee(ctx, e); err != nil {
			logger.ErrorLog(ctx, "restore stopped at employee %d: %v", e.ID(), err)
			return i, &RestoreError{Index: i, ID: e.ID(), Applied: i, Err: err}
		}
	}

	logger.InfoLog(ctx, "restored %d employee records", len(employees))
	return len(employees), nil
}

// RestoreReplacing rebuilds the company from s in a separate company and
// installs the result in one critical section. Any failure leaves the current
// records in place.
func (c *Company) RestoreReplacing(ctx context.Context, s domain.Snapshotter) (int, error) {
	fresh := NewCompany()
	n, err := fresh.Restore(ctx, s)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.store = fresh.store
	c.byDepartment = fresh.byDepartment
	c.managersFactor = fresh.managersFactor
	c.mu.Unlock()

	logger.InfoLog(ctx, "company replaced with %d restored records", n)
	return n, nil
}
