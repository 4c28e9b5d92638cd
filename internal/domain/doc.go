// Package domain models corporate-acquisition risk profiles and the public
// data sources they are derived from.
//
// # Data Sources
//
// Demographic and housing statistics come from the U.S. Census Bureau's
// American Community Survey 5-year estimates (ACS5), queried per ZIP Code
// Tabulation Area (ZCTA). A ZCTA is the Census Bureau's statistical proxy for
// a USPS ZIP code; the two are close enough for heuristic scoring. Five ACS5
// variables are used:
//
//	NAME          area name, e.g. "ZCTA5 92618"
//	B01003_001E   total population
//	B25077_001E   median home value (owner-occupied, dollars)
//	B25003_002E   owner-occupied housing units
//	B25003_003E   renter-occupied housing units
//
// Free-text locations resolve through a two-provider geocoding chain: the
// Census Bureau's onelineaddress geocoder first, then OpenStreetMap Nominatim.
// Housing-counselor data for the assistance endpoint comes from the HUD
// housing-counselor directory.
//
// # Risk Scores
//
// A risk score is an integer clamped to [1,10] with a four-tier label:
//
//	score <= 3   Lower corporate acquisition risk
//	score <= 5   Moderate corporate acquisition risk
//	score <= 7   Moderate-high corporate acquisition risk
//	score >  7   High corporate acquisition risk
//
// Scores are heuristic, not predictions. When census data is available the
// score is derived from owner-occupancy share, median home value, and
// population. When it is not, a deterministic hash of the ZIP (or of the
// geocoded coordinates) stands in, so that repeated queries for the same
// place always produce the same profile. Hand-authored per-ZIP overrides in
// the rules table take precedence over every computed path.
package domain
