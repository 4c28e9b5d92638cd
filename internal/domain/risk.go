package domain

// Risk tier labels shown to users. The tier is chosen from the score by
// LabelForScore; rules-table entries may carry any of these verbatim.
const (
	LabelLower        = "Lower corporate acquisition risk"
	LabelModerate     = "Moderate corporate acquisition risk"
	LabelModerateHigh = "Moderate-high corporate acquisition risk"
	LabelHigh         = "High corporate acquisition risk"
)

// RiskProfile is the output of every scoring path. Score is always in [1,10]
// and Label always matches Score under the four-tier thresholds. Signals are
// ordered by evaluation order, not importance. The auxiliary fields
// (PropertiesOwned, AllCash, RelatedEntities) are heuristic attributes set
// independently by each scoring strategy; they are not derived from Score and
// may be absent.
type RiskProfile struct {
	Score           int      `json:"score"`
	Label           string   `json:"label"`
	Signals         []string `json:"signals"`
	Explanation     string   `json:"explanation"`
	PropertiesOwned *int     `json:"properties_owned"`
	AllCash         *bool    `json:"all_cash"`
	RelatedEntities *int     `json:"related_entities"`

	// ResolvedZip echoes the ZIP the engine settled on, independent of which
	// scoring branch ran. Nil when resolution never produced one (e.g. a
	// geocoded-only result).
	ResolvedZip *string `json:"resolved_zip"`
}

// ClampScore bounds a score to the valid [1,10] range.
func ClampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// LabelForScore maps a score to its risk tier label.
func LabelForScore(score int) string {
	switch {
	case score <= 3:
		return LabelLower
	case score <= 5:
		return LabelModerate
	case score <= 7:
		return LabelModerateHigh
	default:
		return LabelHigh
	}
}

// IntPtr and BoolPtr build pointers for the nullable profile fields.
func IntPtr(v int) *int { return &v }

func BoolPtr(v bool) *bool { return &v }

func StrPtr(v string) *string { return &v }
