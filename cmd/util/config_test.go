package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohsu-comp-bio/accelfit/config"
	"github.com/spf13/pflag"
)

func TestMergeConfigFileWithFlags(t *testing.T) {
	flagConf := config.Config{}
	flagConf.Weigher.Policy = config.ProductFitPolicy

	result, err := MergeConfigFileWithFlags("", flagConf)
	require.NoError(t, err)
	assert.Equal(t, config.ProductFitPolicy, result.Weigher.Policy)
	assert.Equal(t, config.DefaultEpsilon, result.Weigher.Epsilon)

	fileConf := config.DefaultConfig()
	fileConf.Weigher.Multiplier = 3
	fileConf.Ranker.Parallelism = 2
	tmp, cleanup, err := config.ToYamlTempFile(fileConf, "testconfig.yaml")
	require.NoError(t, err)
	defer cleanup()

	flagConf.Ranker.Parallelism = 16
	result, err = MergeConfigFileWithFlags(tmp, flagConf)
	require.NoError(t, err)
	assert.Equal(t, config.ProductFitPolicy, result.Weigher.Policy)
	assert.Equal(t, 3.0, result.Weigher.Multiplier, "file value kept when no flag is set")
	assert.Equal(t, 16, result.Ranker.Parallelism, "flag overrides file")
}

func TestMergeConfigFileWithFlagsValidates(t *testing.T) {
	flagConf := config.Config{}
	flagConf.Weigher.Policy = "best-fit"
	_, err := MergeConfigFileWithFlags("", flagConf)
	assert.Error(t, err)

	_, err = MergeConfigFileWithFlags("does-not-exist.yaml", config.Config{})
	assert.Error(t, err)
}

func TestNormalizeFlags(t *testing.T) {
	var flagConf config.Config
	var configFile string
	f := RankFlags(&flagConf, &configFile)
	f.SetNormalizeFunc(NormalizeFlags)

	err := f.Parse([]string{
		"--weigher-policy", "product-fit",
		"--placement_url", "http://placement:8778",
		"--snapshot-dir", "/var/lib/snapshots",
		"--Ranker.Timeout", "30s",
	})
	require.NoError(t, err)
	assert.Equal(t, "product-fit", flagConf.Weigher.Policy)
	assert.Equal(t, "http://placement:8778", flagConf.Placement.URL)
	assert.Equal(t, "/var/lib/snapshots", flagConf.Ranker.SnapshotDir)
	assert.Equal(t, "30s", flagConf.Ranker.Timeout.String())
}

func TestScoreFlagsExcludePlacement(t *testing.T) {
	var flagConf config.Config
	var configFile string
	f := ScoreFlags(&flagConf, &configFile)
	assert.Nil(t, f.Lookup("Placement.URL"))
	assert.NotNil(t, f.Lookup("Weigher.Policy"))
	assert.IsType(t, &pflag.Flag{}, f.Lookup("config"))
}
