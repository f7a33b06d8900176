package models

import "time"

// CachedModel is a provider-agnostic model descriptor fetched from the
// upstream catalog. The model identifier is the primary key, so a re-fetch
// overwrites the previous row instead of accumulating duplicates.
//
// ExpiresAt is nil for entries that never expire. A row whose expiry has
// passed is treated as absent by readers even before the sweep deletes it.
type CachedModel struct {
	ID              string `gorm:"primaryKey;size:255" json:"id"`
	Name            string `gorm:"size:255" json:"name"`
	Description     string `gorm:"type:text" json:"description,omitempty"`
	ContextLength   int    `json:"contextLength"`
	PricePrompt     string `gorm:"size:50" json:"pricePrompt"`
	PriceCompletion string `gorm:"size:50" json:"priceCompletion"`
	TopProvider     string `gorm:"size:100" json:"topProvider,omitempty"`

	// Architecture and supported parameters are opaque to the cache; they
	// are stored verbatim as JSON text and never inspected here.
	ArchitectureJSON        string `gorm:"type:text" json:"architecture,omitempty"`
	SupportedParametersJSON string `gorm:"type:text" json:"supportedParameters,omitempty"`

	FetchedAt time.Time  `gorm:"not null" json:"fetchedAt"`
	ExpiresAt *time.Time `gorm:"index" json:"expiresAt,omitempty"`
}
