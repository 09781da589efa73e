// Package rank contains the "rank" command, which scores many hosts
// against one request and prints them best first.
package rank

import (
	"context"
	"fmt"
	"io"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ohsu-comp-bio/accelfit/cmd/util"
	"github.com/ohsu-comp-bio/accelfit/config"
	"github.com/ohsu-comp-bio/accelfit/logger"
	"github.com/ohsu-comp-bio/accelfit/metrics"
	"github.com/ohsu-comp-bio/accelfit/placement"
	"github.com/ohsu-comp-bio/accelfit/scheduler"
	sigutil "github.com/ohsu-comp-bio/accelfit/util"
	"github.com/spf13/cobra"
)

// NewCommand returns the rank command
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

type hooks struct {
	Run func(ctx context.Context, conf config.Config, requestFile string, hosts []string, out io.Writer) error
}

func newCommandHooks() (*cobra.Command, *hooks) {
	hooks := &hooks{
		Run: Run,
	}

	var (
		configFile  string
		requestFile string
		flagConf    config.Config
	)

	cmd := &cobra.Command{
		Use:   "rank [flags] HOST...",
		Short: "Score hosts against a request and print them best first.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			ctx, cancel := sigutil.SignalContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return hooks.Run(ctx, conf, requestFile, args, cmd.OutOrStdout())
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	f := cmd.Flags()
	f.StringVar(&requestFile, "request", requestFile, "Request file (YAML or JSON), or - for stdin")
	f.AddFlagSet(util.RankFlags(&flagConf, &configFile))
	cmd.MarkFlagRequired("request")

	return cmd, hooks
}

// NewSource returns the snapshot source selected by the configuration:
// snapshot files when Ranker.SnapshotDir is set, else the placement service.
func NewSource(conf config.Config, log *logger.Logger) (scheduler.SnapshotSource, error) {
	if conf.Ranker.SnapshotDir != "" {
		return &placement.FileSource{Dir: conf.Ranker.SnapshotDir}, nil
	}
	return placement.NewClient(conf.Placement, log.Sub("placement"))
}

// Run scores every host against the request and writes the ranking to out.
// Hosts whose snapshot can't be acquired are logged and left out. Run
// fails only when no host could be scored.
func Run(ctx context.Context, conf config.Config, requestFile string, hosts []string, out io.Writer) error {
	logger.Configure(conf.Logger)
	log := logger.Sub("rank")

	raw, err := util.ReadInput(requestFile)
	if err != nil {
		return fmt.Errorf("reading request: %v", err)
	}
	req, err := scheduler.ParseRequest(raw)
	if err != nil {
		return err
	}

	w, err := scheduler.NewWeigher(conf.Weigher, log.Sub("weigher"))
	if err != nil {
		return err
	}
	src, err := NewSource(conf, log)
	if err != nil {
		return err
	}

	obs := metrics.NewObserver()
	groups, es := w.Extract(req.Groups)
	obs.ObserveExtract(es)
	log.Debug("Extracted accelerator demand",
		"groups", es.GroupsKept, "skipped", es.GroupsSkipped, "invalid_amounts", es.InvalidAmounts)

	if conf.Ranker.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(conf.Ranker.Timeout))
		defer cancel()
	}

	offers, batchErr := scheduler.ScoreHosts(ctx, src, w, hosts, groups, scheduler.BatchOptions{
		Parallelism: conf.Ranker.Parallelism,
		Observer:    obs,
		Log:         log,
	})
	if len(offers) == 0 && batchErr != nil {
		return fmt.Errorf("no host could be scored: %v", batchErr)
	}
	if batchErr != nil {
		log.Warn("Some hosts were left out of the ranking", "error", batchErr)
	}

	scheduler.SortByScore(offers)
	if err := writeRanking(out, offers); err != nil {
		return err
	}

	if conf.Metrics.TextfilePath != "" {
		if err := metrics.WriteTextfile(conf.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("writing metrics: %v", err)
		}
	}
	return nil
}

func writeRanking(out io.Writer, offers []*scheduler.Offer) error {
	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tHOST\tSCORE\tNOTE")
	for i, o := range offers {
		note := ""
		switch {
		case o.Neutral:
			note = "no inventory"
		case o.Score.IsUnmet():
			note = "excluded"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, o.Host, o.Score, note)
	}
	return tw.Flush()
}
