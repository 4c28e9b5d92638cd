package domain

import "time"

// Listing is a property listing, either seeded demo data or ingested via the
// API. Price is nil when the source did not include one.
type Listing struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	Price      *int      `json:"price"`
	Source     string    `json:"source,omitempty"`
	IngestedAt time.Time `json:"ingested_at,omitzero"`
}

// AnnotatedListing is a listing enriched with its risk profile at read time.
type AnnotatedListing struct {
	Listing
	Risk RiskProfile `json:"risk"`
}

// Subscriber is an opt-in alert subscription. At least one of Email or Phone
// is always set; Phone is stored as a normalized 10-digit US number.
type Subscriber struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	ZipCode   string    `json:"zip_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Counselor is a HUD-listed housing counseling agency.
type Counselor struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	State    string `json:"state"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	URL      string `json:"url"`
	Services string `json:"services,omitempty"`
}
