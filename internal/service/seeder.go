package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/locvowork/company_registry/internal/domain"
)

var (
	departments = []string{"Engineering", "Finance", "HR", "IT", "Legal", "Marketing", "Operations", "Sales", "Support", "Research"}
	firstNames  = []string{"Alice", "Bob", "Charlie", "Dana", "Eve", "Frank", "Grace", "Heidi", "Ivan", "Judy"}
	// Factors come from a small set so that ties at the top are common.
	managerFactors = []float64{1.1, 1.25, 1.5, 1.75, 2}
)

// Presets
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

// GetPresetConfig returns the number of departments and employees per department for a preset.
func GetPresetConfig(preset SeedPreset) (numDepartments, perDepartment int) {
	switch preset {
	case PresetSmall:
		return 3, 5
	case PresetMedium:
		return 5, 50
	case PresetLarge:
		return 10, 500
	default:
		return 5, 50
	}
}

// Seeder fills a company with random employees and managers.
type Seeder struct {
	rnd *rand.Rand
	// ManagerRatio is the share of records created as managers.
	ManagerRatio float64
}

// NewSeeder creates a seeder; the same seed always produces the same company.
func NewSeeder(seed int64) *Seeder {
	return &Seeder{rnd: rand.New(rand.NewSource(seed)), ManagerRatio: 0.1}
}

// Seed adds numDepartments*perDepartment records with ids starting at firstID.
func (s *Seeder) Seed(ctx context.Context, c *Company, firstID, numDepartments, perDepartment int) (int, error) {
	if numDepartments > len(departments) {
		numDepartments = len(departments)
	}

	id := firstID
	added := 0
	for d := 0; d < numDepartments; d++ {
		for i := 0; i < perDepartment; i++ {
			if err := ctx.Err(); err != nil {
				return added, err
			}
			if err := c.AddEmployee(ctx, s.record(id, departments[d])); err != nil {
				return added, fmt.Errorf("failed to seed employee %d: %w", id, err)
			}
			id++
			added++
		}
	}
	return added, nil
}

func (s *Seeder) record(id int, department string) *domain.Employee {
	name := fmt.Sprintf("%s %d", firstNames[s.rnd.Intn(len(firstNames))], id)
	salary := float64(3000 + s.rnd.Intn(70)*100)
	if s.rnd.Float64() < s.ManagerRatio {
		factor := managerFactors[s.rnd.Intn(len(managerFactors))]
		return domain.NewManager(id, name, department, salary, factor)
	}
	return domain.NewEmployee(id, name, department, salary)
}
