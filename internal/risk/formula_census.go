package risk

import (
	"math"

	"github.com/firstmover/alert-api/internal/domain"
)

// profileFromCensus derives a risk profile from ACS5 statistics. Base score
// 4, adjusted by owner-occupancy share, median home value, and population,
// then clamped to [1,10]. Signals accumulate in evaluation order.
func profileFromCensus(stats *domain.AreaStats) domain.RiskProfile {
	owner := intOrZero(stats.OwnerOccupiedUnits)
	renter := intOrZero(stats.RenterOccupiedUnits)

	// When both unit counts are missing or zero the share defaults to 0.5,
	// which leaves the base score untouched by the occupancy tiers below.
	ownerShare := 0.5
	if total := owner + renter; total > 0 {
		ownerShare = float64(owner) / float64(total)
	}

	medianValue := intOrZero(stats.MedianHomeValue)
	population := intOrZero(stats.Population)

	score := 4
	var signals []string

	switch {
	case ownerShare < 0.50:
		score += 3
		signals = append(signals, "Owner-occupant share is below 50% in this ZIP")
	case ownerShare < 0.58:
		score += 2
		signals = append(signals, "Owner-occupant share is below regional norms")
	case ownerShare < 0.64:
		score++
		signals = append(signals, "Owner occupancy is healthy but softening")
	default:
		score--
		signals = append(signals, "Owner-occupant share remains comparatively strong")
	}

	switch {
	case medianValue >= 1_000_000:
		score += 2
		signals = append(signals, "Higher home values can attract repeat investor targeting")
	case medianValue >= 700_000:
		score++
		signals = append(signals, "Home values are elevated enough to draw institutional attention")
	default:
		signals = append(signals, "Home values are less likely to drive concentrated institutional demand")
	}

	if population >= 70_000 {
		score++
		signals = append(signals, "Larger ZIP footprint increases investor acquisition opportunities")
	}

	score = domain.ClampScore(score)

	var fallback string
	switch {
	case score <= 3:
		fallback = "This location currently shows a stronger owner-occupant mix and lower investor pressure than typical high-competition zones."
	case score <= 5:
		fallback = "This location shows balanced market activity. Buyers should still monitor new listings early because investor activity is present, but not dominant."
	case score <= 7:
		fallback = "This location shows rising investor pressure, with a softer owner-occupant mix and market conditions that favor faster entity-backed acquisitions."
	default:
		fallback = "This location shows elevated investor pressure, with market conditions that can favor entity-backed and faster acquisitions over owner-occupant buyers."
	}

	propertiesOwned := int(math.RoundToEven((1 - ownerShare) * 24))
	if propertiesOwned < 2 {
		propertiesOwned = 2
	}
	relatedEntities := int(math.RoundToEven(float64(score-1) / 2))
	if relatedEntities < 1 {
		relatedEntities = 1
	}

	return domain.RiskProfile{
		Score:           score,
		Label:           domain.LabelForScore(score),
		Signals:         signals,
		Explanation:     fallback,
		PropertiesOwned: domain.IntPtr(propertiesOwned),
		AllCash:         domain.BoolPtr(score >= 6),
		RelatedEntities: domain.IntPtr(relatedEntities),
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
