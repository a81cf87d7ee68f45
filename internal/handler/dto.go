package handler

import "github.com/locvowork/company_registry/internal/domain"

// EmployeeDTO is the JSON view of a record.
type EmployeeDTO struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Department     string  `json:"department"`
	Salary         float64 `json:"salary"`
	Kind           string  `json:"kind"`
	Factor         float64 `json:"factor,omitempty"`
	ComputedSalary float64 `json:"computed_salary"`
}

func toDTO(e *domain.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:             e.ID(),
		Name:           e.Name(),
		Department:     e.Department(),
		Salary:         e.BasicSalary(),
		Kind:           string(e.Kind()),
		Factor:         e.Factor(),
		ComputedSalary: e.ComputeSalary(),
	}
}

func toDTOs(employees []*domain.Employee) []EmployeeDTO {
	out := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		out[i] = toDTO(e)
	}
	return out
}

// BudgetDTO answers the department budget query.
type BudgetDTO struct {
	Department string  `json:"department"`
	Budget     float64 `json:"budget"`
}

// SnapshotDTO answers save and restore calls.
type SnapshotDTO struct {
	Records int `json:"records"`
}
