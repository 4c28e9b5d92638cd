package domain

import "context"

// AreaStats holds ACS5 demographic and housing statistics for one ZCTA.
// Fields that failed numeric parsing are nil rather than zero so partial
// records stay usable.
type AreaStats struct {
	ZCTA                string `json:"zcta"`
	Name                string `json:"name"`
	Population          *int   `json:"population"`
	MedianHomeValue     *int   `json:"median_home_value"`
	OwnerOccupiedUnits  *int   `json:"owner_occupied_units"`
	RenterOccupiedUnits *int   `json:"renter_occupied_units"`
}

// AreaStatsFetcher looks up ACS5 statistics for a ZCTA. A nil result with a
// nil error means the ZCTA is not covered by the dataset.
type AreaStatsFetcher interface {
	FetchAreaStats(ctx context.Context, zcta string) (*AreaStats, error)
}
