package risk

import (
	"math"

	"github.com/firstmover/alert-api/internal/domain"
)

// profileForGeocodedArea scores a location that geocoded to coordinates but
// never produced a ZIP. The seed truncates |lat|*1000 + |lng|*1000 mod 7, so
// nearby queries land in the same band and repeated queries are identical.
// Band text is phrased around "this area" since no ZIP is known.
func profileForGeocodedArea(lat, lng float64) domain.RiskProfile {
	seed := int(math.Abs(lat)*1000+math.Abs(lng)*1000) % 7
	score := domain.ClampScore(3 + seed)

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
			"Lower visible investor pressure in this local market",
			"Ownership mix appears more stable than high-turnover zones",
		}
		fallback = "This area appears comparatively stable, with lower visible investor pressure than more competitive acquisition zones."
		owned, allCash, entities = 3, false, 1
	case score <= 5:
		label = domain.LabelModerate
		signals = []string{
			"Moderate investor visibility in this local market",
			"Competition may increase around new listings",
		}
		fallback = "This area shows moderate investor pressure. It is not an extreme hotspot, but buyers should still monitor activity closely."
		owned, allCash, entities = 7, false, 2
	case score <= 7:
		label = domain.LabelModerateHigh
		signals = []string{
			"Investor activity appears elevated in this local market",
			"Repeat acquisition patterns may be increasing",
		}
		fallback = "This area shows elevated investor activity and faster-moving competition than a typical owner-occupant market."
		owned, allCash, entities = 12, true, 4
	default:
		label = domain.LabelHigh
		signals = []string{
			"Strong investor concentration indicators in this local market",
			"Acquisition competition is likely elevated for owner-occupants",
		}
		fallback = "This area behaves like a higher-pressure acquisition zone, where owner-occupant buyers may face stronger investor competition."
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
