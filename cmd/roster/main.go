package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"legendarios/internal/config"
	"legendarios/internal/database"
	"legendarios/internal/engine"
	"legendarios/internal/repository"
	"legendarios/internal/service"
)

func main() {
	// Define subcommands
	distributeCmd := flag.NewFlagSet("distribute", flag.ExitOnError)
	pairsCmd := flag.NewFlagSet("pairs", flag.ExitOnError)

	// Distribute flags
	familyCount := distributeCmd.Int("families", 0, "Number of families to distribute into (required)")

	// Pairs flags
	pairsMode := pairsCmd.String("mode", "simulation", "Pairing mode: simulation or official")
	pairsPods := pairsCmd.String("pods", "", "Pod groups as family IDs, e.g. '1,2;3,4' (optional)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	participantRepo := repository.NewParticipantRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	ziplineRepo := repository.NewZiplineRepository(db)

	switch os.Args[1] {
	case "distribute":
		distributeCmd.Parse(os.Args[2:])
		if *familyCount < 1 {
			fmt.Println("Error: -families must be at least 1")
			distributeCmd.PrintDefaults()
			os.Exit(1)
		}
		distributionService := service.NewDistributionService(participantRepo, familyRepo)
		handleDistribute(distributionService, *familyCount)

	case "pairs":
		pairsCmd.Parse(os.Args[2:])
		pods, err := parsePods(*pairsPods)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			pairsCmd.PrintDefaults()
			os.Exit(1)
		}
		ziplineService := service.NewZiplineService(participantRepo, familyRepo, ziplineRepo)
		handlePairs(ziplineService, pods, engine.Mode(*pairsMode))

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleDistribute(distributionService *service.DistributionService, familyCount int) {
	report, err := distributionService.Distribute(familyCount)
	if err != nil {
		log.Fatalf("Distribution failed: %v", err)
	}

	for _, fwm := range report.Families {
		fmt.Printf("%s (%d members)\n", fwm.Family.DisplayName(), len(fwm.Members))
		for _, member := range fwm.Members {
			fmt.Printf("  - %s\n", member.Name)
		}
	}

	if len(report.Violations) == 0 {
		fmt.Println("\nNo separation violations.")
		return
	}
	fmt.Println("\nSeparation violations (review manually):")
	for familyID, pairs := range report.Violations {
		for _, pair := range pairs {
			fmt.Printf("  family %d: %s / %s\n", familyID, pair[0], pair[1])
		}
	}
}

func handlePairs(ziplineService *service.ZiplineService, pods [][]int64, mode engine.Mode) {
	persist := mode == engine.ModeOfficial
	plan, runID, err := ziplineService.GeneratePlan(pods, mode, persist)
	if err != nil {
		log.Fatalf("Pair generation failed: %v", err)
	}

	for _, pair := range plan.Pairs {
		if pair.Second != nil {
			fmt.Printf("pod %d #%d: %s (%.1fkg) + %s (%.1fkg) = %.1fkg\n",
				pair.PodIndex, pair.Sequence,
				pair.First.Name, pair.First.WeightKg,
				pair.Second.Name, pair.Second.WeightKg,
				pair.CombinedWeight)
		} else {
			fmt.Printf("pod %d #%d: %s (%.1fkg) solo\n",
				pair.PodIndex, pair.Sequence, pair.First.Name, pair.First.WeightKg)
		}
	}

	for _, inel := range plan.Ineligible {
		fmt.Printf("ineligible: %s (%s)\n", inel.ParticipantID, inel.Reason)
	}
	if len(plan.SkippedNoWeight) > 0 {
		fmt.Printf("skipped (no weight recorded): %s\n", strings.Join(plan.SkippedNoWeight, ", "))
	}
	if len(plan.WaiverPending) > 0 {
		fmt.Printf("waiver pending: %s\n", strings.Join(plan.WaiverPending, ", "))
	}
	if runID != "" {
		fmt.Printf("\nSaved official run: %s\n", runID)
	}
}

// parsePods parses "1,2;3,4" into pod groups of family IDs.
func parsePods(s string) ([][]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var pods [][]int64
	for _, group := range strings.Split(s, ";") {
		var pod []int64
		for _, field := range strings.Split(group, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			id, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid family ID %q", field)
			}
			pod = append(pod, id)
		}
		if len(pod) > 0 {
			pods = append(pods, pod)
		}
	}
	return pods, nil
}

func printUsage() {
	fmt.Println("Legendários TOP Roster Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  roster distribute [options]    Distribute the roster into families")
	fmt.Println("  roster pairs [options]         Generate zipline pairs")
	fmt.Println()
	fmt.Println("Distribute Options:")
	fmt.Println("  -families <n>    Number of families to distribute into (required)")
	fmt.Println()
	fmt.Println("Pairs Options:")
	fmt.Println("  -mode <mode>     simulation (default) or official; official runs are saved")
	fmt.Println("  -pods <spec>     Pod groups as family IDs, e.g. '1,2;3,4'")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  roster distribute -families 8")
	fmt.Println("  roster pairs -mode simulation")
	fmt.Println("  roster pairs -mode official -pods '1,2;3,4'")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./legendarios.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
