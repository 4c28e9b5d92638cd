package domain

import "errors"

// ErrNotConfigured marks a delivery adapter that was constructed without
// credentials. Callers treat it as a soft failure, not an outage.
var ErrNotConfigured = errors.New("provider not configured")
