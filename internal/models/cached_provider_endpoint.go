package models

import "time"

// CachedProviderEndpoint is one provider's serving configuration for one
// model. Rows are unique on (model_id, provider_name); a later write for the
// same pair replaces the earlier one atomically.
//
// Endpoint health data is far more volatile than the model catalog, so this
// class carries a much shorter TTL.
type CachedProviderEndpoint struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	ModelID             string `gorm:"size:255;not null;uniqueIndex:idx_endpoint_model_provider" json:"modelId"`
	ProviderName        string `gorm:"size:100;not null;uniqueIndex:idx_endpoint_model_provider" json:"providerName"`
	EndpointModelName   string `gorm:"size:255" json:"endpointModelName,omitempty"`
	ContextLength       int    `json:"contextLength"`
	PricePrompt         string `gorm:"size:50" json:"pricePrompt"`
	PriceCompletion     string `gorm:"size:50" json:"priceCompletion"`
	Tag                 string `gorm:"size:100" json:"tag,omitempty"`
	Quantization        string `gorm:"size:50" json:"quantization,omitempty"`
	MaxCompletionTokens *int   `json:"maxCompletionTokens,omitempty"`

	SupportedParametersJSON string `gorm:"type:text" json:"supportedParameters,omitempty"`

	// Status 0 means the endpoint is healthy; nonzero values are provider
	// health codes passed through from upstream.
	Status    int     `json:"status"`
	Uptime30m float64 `gorm:"column:uptime_30m" json:"uptime30m"`

	FetchedAt time.Time  `gorm:"not null" json:"fetchedAt"`
	ExpiresAt *time.Time `gorm:"index" json:"expiresAt,omitempty"`
}
