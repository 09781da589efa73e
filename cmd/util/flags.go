package util

import (
	"strings"

	"github.com/ohsu-comp-bio/accelfit/config"
	"github.com/spf13/pflag"
)

// ScoreFlags returns a new flag set for configuring single host scoring.
func ScoreFlags(flagConf *config.Config, configFile *string) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(configFile, "config", "c", *configFile, "Config File")

	f.AddFlagSet(weigherFlags(flagConf))
	f.AddFlagSet(loggerFlags(flagConf))

	return f
}

// RankFlags returns a new flag set for configuring batch host ranking.
func RankFlags(flagConf *config.Config, configFile *string) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(configFile, "config", "c", *configFile, "Config File")

	f.AddFlagSet(weigherFlags(flagConf))
	f.AddFlagSet(placementFlags(flagConf))
	f.AddFlagSet(rankerFlags(flagConf))
	f.AddFlagSet(metricsFlags(flagConf))
	f.AddFlagSet(loggerFlags(flagConf))

	return f
}

func weigherFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Weigher.RCPattern, "Weigher.RCPattern", flagConf.Weigher.RCPattern, "Regular expression selecting accelerator resource classes")
	f.StringVar(&flagConf.Weigher.Policy, "Weigher.Policy", flagConf.Weigher.Policy, "Scoring policy. One of ['sum-fit', 'product-fit']")
	f.Float64Var(&flagConf.Weigher.Epsilon, "Weigher.Epsilon", flagConf.Weigher.Epsilon, "Constant added to every slack under product-fit")
	f.Float64Var(&flagConf.Weigher.Multiplier, "Weigher.Multiplier", flagConf.Weigher.Multiplier, "Factor applied to final host scores")
	f.BoolVar(&flagConf.Weigher.Trace, "Weigher.Trace", flagConf.Weigher.Trace, "Log every scoring decision at debug level")

	return f
}

func placementFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Placement.URL, "Placement.URL", flagConf.Placement.URL, "Placement service URL")
	f.StringVar(&flagConf.Placement.Token, "Placement.Token", flagConf.Placement.Token, "Placement service auth token")
	f.StringVar(&flagConf.Placement.APIVersion, "Placement.APIVersion", flagConf.Placement.APIVersion, "Placement API microversion header value")
	f.Var(&flagConf.Placement.Timeout, "Placement.Timeout", "Placement request timeout")
	f.IntVar(&flagConf.Placement.MaxRetries, "Placement.MaxRetries", flagConf.Placement.MaxRetries, "Retries of a failed placement request")
	f.Float64Var(&flagConf.Placement.RequestsPerSecond, "Placement.RequestsPerSecond", flagConf.Placement.RequestsPerSecond, "Placement request rate limit")

	return f
}

func rankerFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.IntVar(&flagConf.Ranker.Parallelism, "Ranker.Parallelism", flagConf.Ranker.Parallelism, "Number of hosts scored at once")
	f.StringVar(&flagConf.Ranker.SnapshotDir, "Ranker.SnapshotDir", flagConf.Ranker.SnapshotDir, "Directory of host snapshot files, used instead of the placement service")
	f.StringVar(&flagConf.Ranker.SnapshotDir, "snapshot-dir", flagConf.Ranker.SnapshotDir, "Alias of --Ranker.SnapshotDir")
	f.Var(&flagConf.Ranker.Timeout, "Ranker.Timeout", "Time limit for acquiring the snapshots of a batch")

	return f
}

func metricsFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Metrics.TextfilePath, "Metrics.TextfilePath", flagConf.Metrics.TextfilePath, "File to write metrics to after ranking")

	return f
}

func loggerFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Logger.Level, "Logger.Level", flagConf.Logger.Level, "Level of logging")
	f.StringVar(&flagConf.Logger.OutputFile, "Logger.OutputFile", flagConf.Logger.OutputFile, "File path to write logs to")
	f.StringVar(&flagConf.Logger.Formatter, "Logger.Formatter", flagConf.Logger.Formatter, "Logs formatter. One of ['text', 'json']")

	return f
}

func normalize(name string) string {
	from := []string{"-", "_"}
	to := "."
	for _, sep := range from {
		name = strings.Replace(name, sep, to, -1)
	}
	return strings.ToLower(name)
}

// NormalizeFlags allows for flags to be case and separator insensitive.
// Use it by passing it to cobra.Command.SetGlobalNormalizationFunc
func NormalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	lookup := map[string]string{"help": "help", normalize(name): name}

	f.VisitAll(func(f *pflag.Flag) {
		lookup[normalize(f.Name)] = f.Name
	})

	return pflag.NormalizedName(lookup[normalize(name)])
}
