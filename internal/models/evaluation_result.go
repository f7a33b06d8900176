package models

import (
	"encoding/json"
	"time"
)

// EvaluationResult is an immutable record of one completed benchmark run.
// Rows are append-only: the execution engine creates them once, readers
// aggregate them many times, and the only mutation ever applied is an
// explicit delete by id.
type EvaluationResult struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`

	UserID      *uint  `gorm:"index" json:"userId,omitempty"`
	ModelID     string `gorm:"size:255;not null;index:idx_result_model_benchmark" json:"modelId"`
	Provider    string `gorm:"size:100" json:"provider,omitempty"`
	BenchmarkID string `gorm:"size:100;not null;index:idx_result_model_benchmark" json:"benchmarkId"`

	// Score is computed by the execution engine and stored as-is; it is
	// never recomputed from the sample outcomes here.
	Score              float64  `gorm:"not null" json:"score"`
	SamplesEvaluated   int      `gorm:"not null" json:"samplesEvaluated"`
	CorrectCount       int      `gorm:"not null" json:"correctCount"`
	DurationSeconds    float64  `gorm:"not null" json:"durationSeconds"`
	AvgSampleLatencyMs *float64 `json:"avgSampleLatencyMs,omitempty"`

	RunConfigJSON     string `gorm:"type:text" json:"-"`
	SampleResultsJSON string `gorm:"type:text" json:"-"`
}

// RunConfig captures the knobs the run was executed with.
type RunConfig struct {
	Limit       int     `json:"limit,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
	Seed        *int    `json:"seed,omitempty"`
	Epochs      int     `json:"epochs,omitempty"`
}

// SampleOutcome is one per-sample verdict from a run.
type SampleOutcome struct {
	Question  int     `json:"question"`
	Correct   bool    `json:"correct"`
	Predicted string  `json:"predicted,omitempty"`
	Expected  string  `json:"expected,omitempty"`
	LatencyMs float64 `json:"latencyMs,omitempty"`
}

// SetRunConfig serializes cfg into the row.
func (r *EvaluationResult) SetRunConfig(cfg RunConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	r.RunConfigJSON = string(data)
	return nil
}

// RunConfig deserializes the stored run configuration. A missing
// configuration yields the zero value.
func (r *EvaluationResult) RunConfig() (RunConfig, error) {
	var cfg RunConfig
	if r.RunConfigJSON == "" {
		return cfg, nil
	}
	err := json.Unmarshal([]byte(r.RunConfigJSON), &cfg)
	return cfg, err
}

// SetSampleOutcomes serializes the per-sample verdicts into the row.
func (r *EvaluationResult) SetSampleOutcomes(outcomes []SampleOutcome) error {
	data, err := json.Marshal(outcomes)
	if err != nil {
		return err
	}
	r.SampleResultsJSON = string(data)
	return nil
}

// SampleOutcomes deserializes the stored per-sample verdicts.
func (r *EvaluationResult) SampleOutcomes() ([]SampleOutcome, error) {
	if r.SampleResultsJSON == "" {
		return nil, nil
	}
	var outcomes []SampleOutcome
	err := json.Unmarshal([]byte(r.SampleResultsJSON), &outcomes)
	return outcomes, err
}
