// Package config contains accelfit configuration structures, defaults,
// YAML (un)marshaling, and validation.
package config

import (
	"github.com/ohsu-comp-bio/accelfit/logger"
)

// Scoring policy names accepted in Weigher.Policy.
const (
	SumFitPolicy     = "sum-fit"
	ProductFitPolicy = "product-fit"
)

// Config describes configuration for accelfit.
type Config struct {
	Weigher   Weigher
	Placement Placement
	Ranker    Ranker
	Metrics   Metrics
	Logger    logger.Config
}

// Weigher describes how hosts are scored against accelerator demand.
type Weigher struct {
	// RCPattern is a regular expression selecting the resource classes
	// that count as accelerator demand.
	RCPattern string
	// Policy is either "sum-fit" or "product-fit".
	Policy string
	// Epsilon is added to every per-class slack under product-fit so that a
	// single exactly-zero slack doesn't zero the whole group.
	Epsilon float64
	// Multiplier is applied to the final host score.
	Multiplier float64
	// Trace enables very detailed debug logging of every scoring decision.
	Trace bool
}

// Placement describes how to reach the placement (inventory) service.
type Placement struct {
	URL        string
	Token      string
	APIVersion string
	Timeout    Duration
	// MaxRetries is the number of retries after the first attempt of a request.
	MaxRetries        int
	RequestsPerSecond float64
}

// Ranker describes how batches of hosts are scored.
type Ranker struct {
	// Parallelism is the maximum number of hosts scored at once.
	Parallelism int
	// SnapshotDir, when set, is a directory of provider tree snapshot files
	// named after hosts. It takes precedence over Placement.URL.
	SnapshotDir string
	// Timeout bounds snapshot acquisition for a whole batch.
	Timeout Duration
}

// Metrics describes metrics output.
type Metrics struct {
	// TextfilePath, when set, receives the collected metrics in the
	// node-exporter textfile format after each batch.
	TextfilePath string
}
