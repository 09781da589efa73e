package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeigherConfigParsing(t *testing.T) {
	yaml := `
Weigher:
  Policy: product-fit
  Epsilon: 0.001
  Multiplier: 2.5
  Trace: true
Placement:
  URL: http://placement:8778
  Timeout: 3s
Ranker:
  Parallelism: 16
`
	conf := DefaultConfig()
	require.NoError(t, Parse([]byte(yaml), &conf))

	assert.Equal(t, ProductFitPolicy, conf.Weigher.Policy)
	assert.Equal(t, 0.001, conf.Weigher.Epsilon)
	assert.Equal(t, 2.5, conf.Weigher.Multiplier)
	assert.True(t, conf.Weigher.Trace)
	assert.Equal(t, "http://placement:8778", conf.Placement.URL)
	assert.Equal(t, Duration(time.Second*3), conf.Placement.Timeout)
	assert.Equal(t, 16, conf.Ranker.Parallelism)

	// Values missing from the doc keep their defaults.
	assert.Equal(t, DefaultRCPattern, conf.Weigher.RCPattern)
	assert.Equal(t, "placement 1.14", conf.Placement.APIVersion)
	assert.NoError(t, Validate(conf))
}

func TestYamlRoundTripFile(t *testing.T) {
	conf := DefaultConfig()
	conf.Weigher.Policy = ProductFitPolicy
	conf.Ranker.Timeout = Duration(time.Second * 42)

	path, cleanup, err := ToYamlTempFile(conf, "accelfit.yaml")
	require.NoError(t, err)
	defer cleanup()

	parsed := Config{}
	require.NoError(t, ParseFile(path, &parsed))
	assert.Equal(t, conf, parsed)
}

func TestParseFileMissing(t *testing.T) {
	conf := DefaultConfig()
	assert.NoError(t, ParseFile("", &conf))
	assert.Error(t, ParseFile("does-not-exist.yaml", &conf))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	conf := DefaultConfig()
	conf.Weigher.RCPattern = "(unclosed"
	conf.Weigher.Policy = "max-fit"
	conf.Weigher.Epsilon = 0
	conf.Ranker.Parallelism = 0

	err := Validate(conf)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"RCPattern", "Policy", "Epsilon", "Parallelism"} {
		assert.True(t, strings.Contains(msg, want), "expected %s in %q", want, msg)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestDurationFlagValue(t *testing.T) {
	var d Duration
	require.NoError(t, d.Set("1m30s"))
	assert.Equal(t, "1m30s", d.String())
	assert.Equal(t, "duration", d.Type())
	assert.Error(t, d.Set("soon"))
}
