package assets

import _ "embed"

// BenchmarksData holds the raw JSON registry of runnable benchmarks.
//
//go:embed benchmarks.json
var BenchmarksData []byte
