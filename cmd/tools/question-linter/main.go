// cmd/tools/question-linter/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"confix-workers/internal/models"
	"confix-workers/internal/questions"
	"confix-workers/internal/scoring"
	"confix-workers/pkg/registry"
)

var (
	registryPath string
	questionsDir string
)

func main() {
	lintCmd := flag.NewFlagSet("lint", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	lintCmd.StringVar(&registryPath, "registry", "configs/question-registry.json", "Path to question registry file")
	lintCmd.StringVar(&questionsDir, "dir", "configs/questions", "Directory holding question set files")

	listCmd.StringVar(&registryPath, "registry", "configs/question-registry.json", "Path to question registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "lint":
		lintCmd.Parse(os.Args[2:])
		if err := lintRegistry(); err != nil {
			fmt.Printf("Lint failed: %v\n", err)
			os.Exit(1)
		}

	case "list":
		listCmd.Parse(os.Args[2:])
		if err := listSets(); err != nil {
			fmt.Printf("Error listing sets: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func lintRegistry() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	if len(reg.Sets) == 0 {
		return fmt.Errorf("registry contains no question sets")
	}

	tiers := make(map[string]bool)
	for _, set := range reg.Sets {
		if set.Tier == "" {
			return fmt.Errorf("question set missing required field: Tier")
		}
		tier := strings.ToUpper(set.Tier)
		if tiers[tier] {
			return fmt.Errorf("duplicate tier: %s", set.Tier)
		}
		tiers[tier] = true

		if set.DisplayName == "" {
			return fmt.Errorf("question set %s missing required field: DisplayName", set.Tier)
		}
		if set.File == "" {
			return fmt.Errorf("question set %s missing required field: File", set.Tier)
		}

		if err := lintQuestionFile(set.Tier, filepath.Join(questionsDir, set.File)); err != nil {
			return err
		}
	}

	fmt.Printf("Lint passed. Found %d question sets.\n", len(reg.Sets))
	return nil
}

func lintQuestionFile(tier, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tier %s: %w", tier, err)
	}

	if err := questions.ValidateQuestionSet(raw); err != nil {
		return fmt.Errorf("tier %s: %w", tier, err)
	}

	var qs []models.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return fmt.Errorf("tier %s: %w", tier, err)
	}

	ids := make(map[string]bool)
	for _, q := range qs {
		if ids[q.ID] {
			return fmt.Errorf("tier %s: duplicate question id: %s", tier, q.ID)
		}
		ids[q.ID] = true

		if !hasKnownPrefix(q.ID) {
			fmt.Printf("Warning: tier %s question %s has no dimension prefix, scores as process maturity\n", tier, q.ID)
		}

		// Every option must map onto a maturity label, otherwise it
		// silently scores as zero.
		for _, opt := range q.Options {
			if !scoring.RecognizedLabel(opt) {
				return fmt.Errorf("tier %s question %s: option %q matches no maturity label", tier, q.ID, opt)
			}
		}
	}

	return nil
}

func hasKnownPrefix(id string) bool {
	for _, prefix := range []string{"dq_", "pm_", "au_", "gov_"} {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

func listSets() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	fmt.Printf("Registry version %s (updated %s)\n", reg.Version, reg.LastUpdated)
	for _, set := range reg.Sets {
		paid := "free"
		if set.Paid {
			paid = "paid"
		}
		fmt.Printf("  %-3s %-30s %s (%s)\n", set.Tier, set.DisplayName, set.File, paid)
	}
	return nil
}

func help() {
	fmt.Println(`Usage: question-linter <command> [flags]

Commands:
  lint   Validate the question registry and every referenced question file
  list   Print the registered question sets
  help   Show this help text

Flags:
  -registry  Path to question registry file (default configs/question-registry.json)
  -dir       Directory holding question set files (default configs/questions)`)
}
