package risk

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/firstmover/alert-api/internal/domain"
)

// Rule is one hand-authored rules-table entry. Entries win over every
// computed scoring path, field-for-field, with no normalization.
type Rule struct {
	Score               int      `json:"score"`
	Label               string   `json:"label"`
	Signals             []string `json:"signals"`
	PropertiesOwned     *int     `json:"properties_owned"`
	AllCash             *bool    `json:"all_cash"`
	RelatedEntities     *int     `json:"related_entities"`
	ExplanationFallback string   `json:"explanation_fallback"`
}

// RulesTable maps ZIP strings to static rules, plus a "default" entry used
// when nothing resolves.
type RulesTable map[string]Rule

// RulesStore loads the rules file once and serves it read-only for the
// process lifetime. Refreshing requires a restart. The store is explicitly
// constructed and injected into the engine so tests never share hidden
// global state.
type RulesStore struct {
	path   string
	logger *slog.Logger

	once  sync.Once
	table RulesTable
}

// NewRulesStore creates a store for the rules file at path. The file is not
// read until the first Table call.
func NewRulesStore(path string, logger *slog.Logger) *RulesStore {
	return &RulesStore{path: path, logger: logger}
}

// Table returns the rules table, loading it on first use. A missing or
// unreadable file is never fatal: a single built-in default entry is
// substituted so scoring always has somewhere to land.
func (s *RulesStore) Table() RulesTable {
	s.once.Do(func() {
		s.table = s.load()
	})
	return s.table
}

// CoveredZCTAs counts the numeric ZIP keys in the table, excluding "default".
func (s *RulesStore) CoveredZCTAs() int {
	n := 0
	for key := range s.Table() {
		if key != "default" && isDigits(key) {
			n++
		}
	}
	return n
}

func (s *RulesStore) load() RulesTable {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("risk rules file not found, using built-in default", "path", s.path, "error", err)
		return builtinRules()
	}

	var table RulesTable
	if err := json.Unmarshal(raw, &table); err != nil {
		s.logger.Warn("risk rules file unreadable, using built-in default", "path", s.path, "error", err)
		return builtinRules()
	}

	s.logger.Info("risk rules loaded", "path", s.path, "entries", len(table))
	return table
}

func builtinRules() RulesTable {
	return RulesTable{
		"default": {
			Score:               4,
			Label:               domain.LabelModerate,
			Signals:             []string{"No risk data loaded. Add data/risk_rules.json."},
			ExplanationFallback: "Risk rules file not found. Using default message.",
		},
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// profileFromRule copies a static rule into a RiskProfile verbatim.
func profileFromRule(rule Rule) domain.RiskProfile {
	return domain.RiskProfile{
		Score:           rule.Score,
		Label:           rule.Label,
		Signals:         append([]string(nil), rule.Signals...),
		Explanation:     rule.ExplanationFallback,
		PropertiesOwned: rule.PropertiesOwned,
		AllCash:         rule.AllCash,
		RelatedEntities: rule.RelatedEntities,
	}
}
