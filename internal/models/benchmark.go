package models

// Benchmark describes one benchmark the execution engine can run.
type Benchmark struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	InspectTask string `json:"inspectTask"`
}

// BenchmarkGroup groups benchmarks by category for presentation.
type BenchmarkGroup struct {
	Category   string      `json:"category"`
	Benchmarks []Benchmark `json:"benchmarks"`
}
