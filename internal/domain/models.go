package domain

import (
	"fmt"
	"math"
)

// Kind discriminates the record variants held by a company.
type Kind string

const (
	KindEmployee Kind = "Employee"
	KindManager  Kind = "Manager"
)

// Valid reports whether k is a known record kind.
func (k Kind) Valid() bool {
	return k == KindEmployee || k == KindManager
}

// Employee is an immutable employee or manager record.
// Department and factor are indexed by the company, so they can only change
// by removing the record and adding a new one.
type Employee struct {
	id          int
	name        string
	department  string
	basicSalary float64
	kind        Kind
	factor      float64
}

// NewEmployee creates a base employee record.
func NewEmployee(id int, name, department string, basicSalary float64) *Employee {
	return &Employee{
		id:          id,
		name:        name,
		department:  department,
		basicSalary: basicSalary,
		kind:        KindEmployee,
	}
}

// NewManager creates a manager record whose salary is scaled by factor.
func NewManager(id int, name, department string, basicSalary, factor float64) *Employee {
	return &Employee{
		id:          id,
		name:        name,
		department:  department,
		basicSalary: basicSalary,
		kind:        KindManager,
		factor:      factor,
	}
}

// DefaultEmployee returns the zero-value base record.
func DefaultEmployee() *Employee {
	return NewEmployee(0, "", "", 0)
}

func (e *Employee) ID() int { return e.id }
func (e *Employee) Name() string { return e.name }
func (e *Employee) Department() string { return e.department }
func (e *Employee) BasicSalary() float64 { return e.basicSalary }
func (e *Employee) Kind() Kind { return e.kind }
func (e *Employee) Factor() float64 { return e.factor }
func (e *Employee) IsManager() bool { return e.kind == KindManager }

// ComputeSalary returns the basic salary for employees and the basic salary
// multiplied by the factor for managers.
func (e *Employee) ComputeSalary() float64 {
	switch e.kind {
	case KindManager:
		return e.basicSalary * e.factor
	default:
		return e.basicSalary
	}
}

// Validate checks that the record can be stored and indexed.
func (e *Employee) Validate() error {
	if e == nil {
		return &InvalidRecordError{Reason: "record is nil"}
	}
	if !e.kind.Valid() {
		return &InvalidRecordError{ID: e.id, Reason: fmt.Sprintf("unknown kind %q", e.kind)}
	}
	if e.department == "" {
		return &InvalidRecordError{ID: e.id, Reason: "department is empty"}
	}
	if math.IsNaN(e.basicSalary) || math.IsInf(e.basicSalary, 0) || e.basicSalary < 0 {
		return &InvalidRecordError{ID: e.id, Reason: fmt.Sprintf("invalid basic salary %v", e.basicSalary)}
	}
	switch e.kind {
	case KindManager:
		if math.IsNaN(e.factor) || math.IsInf(e.factor, 0) || e.factor < 0 {
			return &InvalidRecordError{ID: e.id, Reason: fmt.Sprintf("invalid factor %v", e.factor)}
		}
	case KindEmployee:
		if e.factor != 0 {
			return &InvalidRecordError{ID: e.id, Reason: "factor set on a non-manager record"}
		}
	}
	return nil
}

func (e *Employee) String() string {
	if e.IsManager() {
		return fmt.Sprintf("Manager{id=%d dept=%s salary=%v factor=%v}", e.id, e.department, e.basicSalary, e.factor)
	}
	return fmt.Sprintf("Employee{id=%d dept=%s salary=%v}", e.id, e.department, e.basicSalary)
}

// Descriptor is the plain shape a record is persisted as.
type Descriptor struct {
	ID         int     `json:"id" yaml:"id" db:"id" datastore:"ID"`
	Name       string  `json:"name" yaml:"name" db:"name" datastore:"Name"`
	Department string  `json:"department" yaml:"department" db:"department" datastore:"Department"`
	Salary     float64 `json:"salary" yaml:"salary" db:"salary" datastore:"Salary"`
	Kind       Kind    `json:"kind" yaml:"kind" db:"kind" datastore:"Kind"`
	Factor     float64 `json:"factor,omitempty" yaml:"factor,omitempty" db:"factor" datastore:"Factor"`
}

// Descriptor converts the record into its persisted shape.
func (e *Employee) Descriptor() Descriptor {
	return Descriptor{
		ID:         e.id,
		Name:       e.name,
		Department: e.department,
		Salary:     e.basicSalary,
		Kind:       e.kind,
		Factor:     e.factor,
	}
}

// FromDescriptor rebuilds a record from its persisted shape.
// An empty kind is read as a base employee.
func FromDescriptor(d Descriptor) (*Employee, error) {
	var e *Employee
	switch d.Kind {
	case KindEmployee, "":
		e = NewEmployee(d.ID, d.Name, d.Department, d.Salary)
		e.factor = d.Factor
	case KindManager:
		e = NewManager(d.ID, d.Name, d.Department, d.Salary, d.Factor)
	default:
		return nil, &InvalidRecordError{ID: d.ID, Reason: fmt.Sprintf("unknown kind %q", d.Kind)}
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
