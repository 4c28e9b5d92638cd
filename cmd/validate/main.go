// Command validate checks the file-backed data fixtures: the risk rules
// override table and the demo listings seed. It verifies rule schema
// constraints (5-digit ZIP keys, scores in range, non-empty labels) and
// listing field presence.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/firstmover/alert-api/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory containing risk_rules.json and mock_listings.json")
	flag.Parse()

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	fmt.Println("=== Data Fixture Validation ===")
	fmt.Println()

	phases := []*phase{
		validateRules(filepath.Join(dataDir, "risk_rules.json")),
		validateListings(filepath.Join(dataDir, "mock_listings.json")),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-36s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

type ruleFixture struct {
	Score               *int     `json:"score"`
	Label               string   `json:"label"`
	Signals             []string `json:"signals"`
	ExplanationFallback string   `json:"explanation_fallback"`
}

func validateRules(path string) *phase {
	p := &phase{name: "Rules table (risk_rules.json)"}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Printf("  Note: %s absent; the engine substitutes a built-in default\n", path)
		return p
	}
	if err != nil {
		p.errorf("read: %v", err)
		return p
	}

	var table map[string]ruleFixture
	if err := json.Unmarshal(raw, &table); err != nil {
		p.errorf("parse: %v", err)
		return p
	}

	if _, ok := table["default"]; !ok {
		p.errorf(`missing "default" entry`)
	}

	for key, rule := range table {
		if key != "default" && !isFiveDigitZip(key) {
			p.errorf("key %q is not a 5-digit ZIP", key)
		}
		if rule.Score == nil {
			p.errorf("%s: score is missing", key)
		} else if *rule.Score < 1 || *rule.Score > 10 {
			p.errorf("%s: score %d outside [1,10]", key, *rule.Score)
		}
		if rule.Label == "" {
			p.errorf("%s: label is empty", key)
		}
		if len(rule.Signals) == 0 {
			p.errorf("%s: no signals", key)
		}
		if rule.ExplanationFallback == "" {
			p.errorf("%s: explanation_fallback is empty", key)
		}
	}
	return p
}

func validateListings(path string) *phase {
	p := &phase{name: "Demo listings (mock_listings.json)"}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Printf("  Note: %s absent; GET /listings serves stored rows only\n", path)
		return p
	}
	if err != nil {
		p.errorf("read: %v", err)
		return p
	}

	var seed struct {
		Listings []domain.Listing `json:"listings"`
	}
	if err := json.Unmarshal(raw, &seed); err != nil {
		p.errorf("parse: %v", err)
		return p
	}

	seen := map[string]bool{}
	for i, l := range seed.Listings {
		if l.ID == "" {
			p.errorf("listing %d: id is empty", i)
		} else if seen[l.ID] {
			p.errorf("listing %d: duplicate id %q", i, l.ID)
		}
		seen[l.ID] = true

		if l.Address == "" {
			p.errorf("listing %d: address is empty", i)
		}
		if l.Price != nil && *l.Price <= 0 {
			p.errorf("listing %d: price %d is not positive", i, *l.Price)
		}
	}
	fmt.Printf("  Listings: %d\n", len(seed.Listings))
	return p
}

func isFiveDigitZip(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
