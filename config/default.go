package config

import (
	"time"

	"github.com/ohsu-comp-bio/accelfit/logger"
)

// DefaultRCPattern matches the accelerator resource classes scored by default.
const DefaultRCPattern = `(?i)^(CUSTOM_)?(FPGA|PGPU|VGPU|QAT|NIC|SSD|AICHIP)$`

// DefaultEpsilon is the default product-fit stabilizing constant.
const DefaultEpsilon = 1e-6

// DefaultConfig returns configuration with simple defaults.
func DefaultConfig() Config {
	return Config{
		Weigher: Weigher{
			RCPattern:  DefaultRCPattern,
			Policy:     SumFitPolicy,
			Epsilon:    DefaultEpsilon,
			Multiplier: 1.0,
		},
		Placement: Placement{
			URL:               "http://localhost:8778",
			APIVersion:        "placement 1.14",
			Timeout:           Duration(time.Second * 10),
			MaxRetries:        3,
			RequestsPerSecond: 50,
		},
		Ranker: Ranker{
			Parallelism: 8,
			Timeout:     Duration(time.Minute),
		},
		Logger: logger.DefaultConfig(),
	}
}
