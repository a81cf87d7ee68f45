package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/locvowork/company_registry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	company *Company
	emp1    *domain.Employee
	emp2    *domain.Employee
	mgr1    *domain.Employee
}

func newFixture() fixture {
	return fixture{
		company: NewCompany(),
		emp1:    domain.NewEmployee(1, "Alice", "HR", 5000),
		emp2:    domain.NewEmployee(2, "Bob", "IT", 6000),
		mgr1:    domain.NewManager(3, "Charlie", "IT", 8000, 1.5),
	}
}

func (f fixture) addAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.company.AddEmployee(ctx, f.emp1))
	require.NoError(t, f.company.AddEmployee(ctx, f.emp2))
	require.NoError(t, f.company.AddEmployee(ctx, f.mgr1))
}

func TestCompanyAddAndGet(t *testing.T) {
	ctx := context.Background()

	t.Run("add then get returns the same record", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.company.AddEmployee(ctx, f.emp1))
		assert.Same(t, f.emp1, f.company.GetEmployee(1))
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		f := newFixture()
		assert.Nil(t, f.company.GetEmployee(999))
	})

	t.Run("duplicate leaves record and indexes untouched", func(t *testing.T) {
		f := newFixture()
		f.addAll(t)

		dup := domain.NewManager(1, "Mallory", "Legal", 99999, 9)
		err := f.company.AddEmployee(ctx, dup)
		require.Error(t, err)
		assert.EqualError(t, err, "Already exists employee 1")
		assert.True(t, errors.Is(err, domain.ErrDuplicateID))

		assert.Same(t, f.emp1, f.company.GetEmployee(1))
		assert.Equal(t, []string{"HR", "IT"}, f.company.GetDepartments())
		assert.Equal(t, 0.0, f.company.GetDepartmentBudget("Legal"))
		assert.Equal(t, []*domain.Employee{f.mgr1}, f.company.GetManagersWithMostFactor())
		assert.Equal(t, 3, f.company.Len())
	})

	t.Run("invalid record is rejected before the store", func(t *testing.T) {
		f := newFixture()
		err := f.company.AddEmployee(ctx, domain.NewEmployee(5, "Nobody", "", 100))
		assert.True(t, errors.Is(err, domain.ErrInvalidRecord))

		err = f.company.AddEmployee(ctx, nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidRecord))

		assert.Equal(t, 0, f.company.Len())
		assert.Empty(t, f.company.GetDepartments())
	})
}

func TestCompanyRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("remove returns the record", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.company.AddEmployee(ctx, f.emp1))

		removed, err := f.company.RemoveEmployee(ctx, 1)
		require.NoError(t, err)
		assert.Same(t, f.emp1, removed)
		assert.Nil(t, f.company.GetEmployee(1))
	})

	t.Run("remove missing fails and changes nothing", func(t *testing.T) {
		f := newFixture()
		f.addAll(t)

		_, err := f.company.RemoveEmployee(ctx, 999)
		require.Error(t, err)
		assert.EqualError(t, err, "Not found employee 999")
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		assert.Equal(t, []string{"HR", "IT"}, f.company.GetDepartments())
		assert.Equal(t, 5000.0, f.company.GetDepartmentBudget("HR"))
		assert.Equal(t, []*domain.Employee{f.mgr1}, f.company.GetManagersWithMostFactor())
	})

	t.Run("removing the last record drops the department", func(t *testing.T) {
		f := newFixture()
		f.addAll(t)

		_, err := f.company.RemoveEmployee(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"IT"}, f.company.GetDepartments())
		assert.Equal(t, 0.0, f.company.GetDepartmentBudget("HR"))
	})

	t.Run("removing the last manager empties the factor index", func(t *testing.T) {
		f := newFixture()
		f.addAll(t)

		_, err := f.company.RemoveEmployee(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, f.company.GetManagersWithMostFactor())
		assert.Equal(t, 6000.0, f.company.GetDepartmentBudget("IT"))
		assert.Empty(t, f.company.managersFactor)
	})

	t.Run("remove and re-add moves the department", func(t *testing.T) {
		f := newFixture()
		f.addAll(t)

		_, err := f.company.RemoveEmployee(ctx, 2)
		require.NoError(t, err)
		require.NoError(t, f.company.AddEmployee(ctx, domain.NewEmployee(2, "Bob", "Sales", 6000)))

		assert.Equal(t, []string{"HR", "IT", "Sales"}, f.company.GetDepartments())
		assert.Equal(t, 12000.0, f.company.GetDepartmentBudget("IT"))
		assert.Equal(t, 6000.0, f.company.GetDepartmentBudget("Sales"))
	})
}

func TestCompanyQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("department budget", func(t *testing.T) {
		f := newFixture()
		f.addAll(t)

		assert.Equal(t, 5000.0, f.company.GetDepartmentBudget("HR"))
		assert.Equal(t, 6000.0+f.mgr1.ComputeSalary(), f.company.GetDepartmentBudget("IT"))
		assert.Equal(t, 0.0, f.company.GetDepartmentBudget("Unknown"))
	})

	t.Run("departments are sorted", func(t *testing.T) {
		c := NewCompany()
		for i, d := range []string{"Sales", "HR", "IT", "Engineering", "HR"} {
			require.NoError(t, c.AddEmployee(ctx, domain.NewEmployee(i+1, "", d, 100)))
		}
		assert.Equal(t, []string{"Engineering", "HR", "IT", "Sales"}, c.GetDepartments())
	})

	t.Run("no managers gives an empty result", func(t *testing.T) {
		c := NewCompany()
		require.NoError(t, c.AddEmployee(ctx, domain.NewEmployee(1, "", "HR", 100)))
		got := c.GetManagersWithMostFactor()
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("ties at the highest factor are all returned", func(t *testing.T) {
		c := NewCompany()
		low := domain.NewManager(1, "", "IT", 100, 1.2)
		top1 := domain.NewManager(2, "", "IT", 100, 2)
		top2 := domain.NewManager(3, "", "HR", 100, 2)
		for _, m := range []*domain.Employee{low, top1, top2} {
			require.NoError(t, c.AddEmployee(ctx, m))
		}
		assert.ElementsMatch(t, []*domain.Employee{top1, top2}, c.GetManagersWithMostFactor())

		_, err := c.RemoveEmployee(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []*domain.Employee{top2}, c.GetManagersWithMostFactor())

		_, err = c.RemoveEmployee(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []*domain.Employee{low}, c.GetManagersWithMostFactor())
	})

	t.Run("zero factor manager is still a manager", func(t *testing.T) {
		c := NewCompany()
		m := domain.NewManager(1, "", "IT", 100, 0)
		require.NoError(t, c.AddEmployee(ctx, m))
		assert.Equal(t, []*domain.Employee{m}, c.GetManagersWithMostFactor())
		assert.Equal(t, 0.0, c.GetDepartmentBudget("IT"))
	})

	t.Run("returned slices do not alias the index", func(t *testing.T) {
		f := newFixture()
		f.addAll(t)
		got := f.company.GetManagersWithMostFactor()
		got[0] = f.emp1
		assert.Equal(t, []*domain.Employee{f.mgr1}, f.company.GetManagersWithMostFactor())
	})

	t.Run("clear drops everything", func(t *testing.T) {
		f := newFixture()
		f.addAll(t)
		f.company.Clear()
		assert.Equal(t, 0, f.company.Len())
		assert.Empty(t, f.company.GetDepartments())
		assert.Empty(t, f.company.GetManagersWithMostFactor())
	})
}

func TestCompanyConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	c := NewCompany()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := w*1000 + i
				dept := fmt.Sprintf("D%d", i%4)
				var e *domain.Employee
				if i%5 == 0 {
					e = domain.NewManager(id, "", dept, 100, float64(i%3))
				} else {
					e = domain.NewEmployee(id, "", dept, 100)
				}
				if err := c.AddEmployee(ctx, e); err != nil {
					t.Error(err)
					return
				}
				if i%2 == 0 {
					if _, err := c.RemoveEmployee(ctx, id); err != nil {
						t.Error(err)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 8*50, c.Len())
	var total float64
	for _, d := range c.GetDepartments() {
		total += c.GetDepartmentBudget(d)
	}
	var want float64
	for _, e := range c.Employees() {
		want += e.ComputeSalary()
	}
	assert.Equal(t, want, total)
}
