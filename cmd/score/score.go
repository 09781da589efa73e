// Package score contains the "score" command, which scores one host
// snapshot against a request.
package score

import (
	"fmt"
	"io"

	"github.com/ohsu-comp-bio/accelfit/cmd/util"
	"github.com/ohsu-comp-bio/accelfit/config"
	"github.com/ohsu-comp-bio/accelfit/logger"
	"github.com/ohsu-comp-bio/accelfit/placement"
	"github.com/ohsu-comp-bio/accelfit/scheduler"
	"github.com/spf13/cobra"
)

// NewCommand returns the score command
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

// Options are the input files of the score command.
type Options struct {
	SnapshotFile string
	RequestFile  string
}

type hooks struct {
	Run func(conf config.Config, opts Options, out io.Writer) error
}

func newCommandHooks() (*cobra.Command, *hooks) {
	hooks := &hooks{
		Run: Run,
	}

	var (
		configFile string
		flagConf   config.Config
		opts       Options
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one host snapshot against a request.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			return hooks.Run(conf, opts, cmd.OutOrStdout())
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	f := cmd.Flags()
	f.StringVar(&opts.SnapshotFile, "snapshot", opts.SnapshotFile, "Provider tree snapshot file (YAML or JSON)")
	f.StringVar(&opts.RequestFile, "request", opts.RequestFile, "Request file (YAML or JSON), or - for stdin")
	f.AddFlagSet(util.ScoreFlags(&flagConf, &configFile))
	cmd.MarkFlagRequired("snapshot")
	cmd.MarkFlagRequired("request")

	return cmd, hooks
}

// Run scores the snapshot against the request and writes a report to out.
func Run(conf config.Config, opts Options, out io.Writer) error {
	logger.Configure(conf.Logger)
	log := logger.Sub("score")

	tree, err := placement.LoadSnapshotFile(opts.SnapshotFile)
	if err != nil {
		return err
	}

	raw, err := util.ReadInput(opts.RequestFile)
	if err != nil {
		return fmt.Errorf("reading request: %v", err)
	}
	req, err := scheduler.ParseRequest(raw)
	if err != nil {
		return err
	}

	w, err := scheduler.NewWeigher(conf.Weigher, log)
	if err != nil {
		return err
	}

	score, stats := w.ScoreRequest(tree, req)
	log.Debug("Scored snapshot", stats.LogFields()...)

	return writeReport(out, tree.Root().ID, score, stats)
}

func writeReport(out io.Writer, host string, score scheduler.Score, stats *scheduler.Stats) error {
	_, err := fmt.Fprintf(out,
		"host: %s\npolicy: %s\nscore: %s\ngroups: %d accelerator, %d skipped, %d invalid amounts\n",
		host, stats.Policy, score, stats.GroupsAccel, stats.GroupsSkipped, stats.InvalidAmounts,
	)
	if err != nil {
		return err
	}
	for i := range stats.GroupSlacks {
		_, err = fmt.Fprintf(out, "group %d: slack=%s product=%g\n",
			i, scheduler.Score(stats.GroupSlacks[i]), stats.GroupProducts[i])
		if err != nil {
			return err
		}
	}
	return nil
}
