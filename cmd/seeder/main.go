package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/locvowork/company_registry/internal/bootstrap"
	"github.com/locvowork/company_registry/internal/domain"
	"github.com/locvowork/company_registry/internal/logger"
	"github.com/locvowork/company_registry/internal/persistence"
	"github.com/locvowork/company_registry/internal/service"
)

func main() {
	// Define flags
	action := flag.String("action", "seed", "Action to perform: seed, clear, report")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large")
	departments := flag.Int("departments", 0, "Number of departments (overrides preset)")
	perDepartment := flag.Int("employees", 0, "Number of employees per department (overrides preset)")
	seed := flag.Int64("seed", 1, "Random seed")
	out := flag.String("out", "", "Snapshot file; overrides the configured backend")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("🚀 Company Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application", err)
		log.Fatal(err)
	}
	defer app.Close()

	snapshotter := app.Snapshotter
	if *out != "" {
		fs, err := persistence.NewFileSnapshotter(*out)
		if err != nil {
			log.Fatal(err)
		}
		snapshotter = fs
	}

	switch *action {
	case "seed":
		performSeed(ctx, snapshotter, *preset, *departments, *perDepartment, *seed)

	case "clear":
		performClear(ctx, snapshotter)

	case "report":
		performReport(ctx, snapshotter)

	default:
		fmt.Printf("❌ Unknown action: %s\n", *action)
		flag.PrintDefaults()
	}

	fmt.Println("\n✅ Done!")
}

func performSeed(ctx context.Context, snapshotter domain.Snapshotter, preset string, departments, perDepartment int, seed int64) {
	numDepartments, numEmployees := service.GetPresetConfig(service.SeedPreset(preset))
	if departments > 0 && perDepartment > 0 {
		numDepartments, numEmployees = departments, perDepartment
		fmt.Printf("📊 Using custom configuration: %d departments, %d employees each\n", numDepartments, numEmployees)
	} else {
		fmt.Printf("📊 Using preset: %s\n", preset)
	}

	company := service.NewCompany()
	n, err := service.NewSeeder(seed).Seed(ctx, company, 1, numDepartments, numEmployees)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	if _, err := company.Save(ctx, snapshotter); err != nil {
		log.Fatalf("❌ Saving failed: %v", err)
	}
	fmt.Printf("✅ Seeded %d employees\n", n)
}

func performClear(ctx context.Context, snapshotter domain.Snapshotter) {
	fmt.Println("⚠️  This will delete all saved employees!")
	fmt.Print("Continue? (yes/no): ")

	var response string
	fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Cancelled.")
		return
	}
	if err := snapshotter.Save(ctx, nil); err != nil {
		log.Fatalf("❌ Clear failed: %v", err)
	}
}

func performReport(ctx context.Context, snapshotter domain.Snapshotter) {
	company := service.NewCompany()
	n, err := company.Restore(ctx, snapshotter)
	if err != nil {
		log.Fatalf("❌ Restore failed: %v", err)
	}
	fmt.Printf("📋 %d employees\n", n)
	for _, d := range company.GetDepartments() {
		fmt.Printf("  %-12s budget %.2f\n", d, company.GetDepartmentBudget(d))
	}
	for _, m := range company.GetManagersWithMostFactor() {
		fmt.Printf("⭐ top manager %d (%s) factor %v\n", m.ID(), m.Department(), m.Factor())
	}
}
