package domain

import "time"

// AssetStatus enumerates delivery states for licensed assets. Expired is
// forward-only: the sweep never moves an asset back out of it.
type AssetStatus string

const (
	AssetStatusActive  AssetStatus = "ACTIVE"
	AssetStatusExpired AssetStatus = "EXPIRED"
	AssetStatusRevoked AssetStatus = "REVOKED"
)

// LicenseKey is a sold, time-limited product key.
type LicenseKey struct {
	ID        string
	VariantID string
	Status    AssetStatus
	ExpiresAt *time.Time
}

// ProvisionedAccount is a sold, time-limited account credential.
type ProvisionedAccount struct {
	ID        string
	VariantID string
	Status    AssetStatus
	ExpiresAt *time.Time
}
