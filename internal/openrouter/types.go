package openrouter

import (
	"encoding/json"

	"benchboard/internal/models"
)

// Wire types for the upstream catalog API. Field casing follows the wire
// (snake_case); translation to cache entities happens in this package only.

type Pricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

type TopProvider struct {
	Name                string `json:"name,omitempty"`
	ContextLength       int    `json:"context_length,omitempty"`
	MaxCompletionTokens *int   `json:"max_completion_tokens,omitempty"`
}

type Model struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	ContextLength       int             `json:"context_length"`
	Pricing             Pricing         `json:"pricing"`
	TopProvider         *TopProvider    `json:"top_provider,omitempty"`
	Architecture        json.RawMessage `json:"architecture,omitempty"`
	SupportedParameters []string        `json:"supported_parameters,omitempty"`
}

type Endpoint struct {
	Name                string   `json:"name"`
	ModelName           string   `json:"model_name"`
	ProviderName        string   `json:"provider_name"`
	ContextLength       int      `json:"context_length"`
	Pricing             Pricing  `json:"pricing"`
	Tag                 string   `json:"tag,omitempty"`
	Quantization        string   `json:"quantization,omitempty"`
	MaxCompletionTokens *int     `json:"max_completion_tokens,omitempty"`
	SupportedParameters []string `json:"supported_parameters,omitempty"`
	Status              int      `json:"status"`
	UptimeLast30m       float64  `json:"uptime_last_30m"`
}

type modelsResponse struct {
	Data []Model `json:"data"`
}

type endpointsResponse struct {
	Data struct {
		ID        string     `json:"id"`
		Endpoints []Endpoint `json:"endpoints"`
	} `json:"data"`
}

// ToCachedModel maps a wire model onto a cache row. Timestamps are left
// zero; the cache repository stamps them on write.
func (m Model) ToCachedModel() models.CachedModel {
	cached := models.CachedModel{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		ContextLength:   m.ContextLength,
		PricePrompt:     m.Pricing.Prompt,
		PriceCompletion: m.Pricing.Completion,
	}
	if m.TopProvider != nil {
		cached.TopProvider = m.TopProvider.Name
	}
	if len(m.Architecture) > 0 {
		cached.ArchitectureJSON = string(m.Architecture)
	}
	if len(m.SupportedParameters) > 0 {
		data, err := json.Marshal(m.SupportedParameters)
		if err == nil {
			cached.SupportedParametersJSON = string(data)
		}
	}
	return cached
}

// ToCachedEndpoint maps a wire endpoint for modelID onto a cache row.
func (e Endpoint) ToCachedEndpoint(modelID string) models.CachedProviderEndpoint {
	cached := models.CachedProviderEndpoint{
		ModelID:             modelID,
		ProviderName:        e.ProviderName,
		EndpointModelName:   e.ModelName,
		ContextLength:       e.ContextLength,
		PricePrompt:         e.Pricing.Prompt,
		PriceCompletion:     e.Pricing.Completion,
		Tag:                 e.Tag,
		Quantization:        e.Quantization,
		MaxCompletionTokens: e.MaxCompletionTokens,
		Status:              e.Status,
		Uptime30m:           e.UptimeLast30m,
	}
	if len(e.SupportedParameters) > 0 {
		data, err := json.Marshal(e.SupportedParameters)
		if err == nil {
			cached.SupportedParametersJSON = string(data)
		}
	}
	return cached
}
