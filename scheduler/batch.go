package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/hashicorp/go-multierror"

	"github.com/ohsu-comp-bio/accelfit/logger"
	"github.com/ohsu-comp-bio/accelfit/placement"
	"github.com/ohsu-comp-bio/accelfit/util"
)

// SnapshotSource provides the provider tree of a host. It returns
// placement.ErrNoRootProvider when the host has no root provider.
type SnapshotSource interface {
	Snapshot(ctx context.Context, host string) (*placement.Tree, error)
}

// Observer is notified of batch scoring outcomes.
type Observer interface {
	ObserveOffer(o *Offer)
	ObserveSnapshotError(host string, err error)
	ObserveBatch(d time.Duration)
}

// BatchOptions configures ScoreHosts.
type BatchOptions struct {
	// Parallelism bounds the number of hosts scored at once. Values below
	// one mean one.
	Parallelism int
	// Observer is optional.
	Observer Observer
	// Log is optional.
	Log *logger.Logger
}

// HostError is a failure to acquire the provider tree of a host.
type HostError struct {
	Host string
	Err  error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host %s: %v", e.Host, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// ScoreHosts scores every host against groups, acquiring snapshots from
// src in parallel. Offers follow the order of hosts. A host without a root
// provider gets a neutral offer. A host whose snapshot can't be acquired
// is left out of the offers and its error is included in the returned
// multierror, which doesn't stop the other hosts from being scored.
func ScoreHosts(ctx context.Context, src SnapshotSource, w *Weigher, hosts []string, groups []DemandGroup, opts BatchOptions) ([]*Offer, error) {
	start := time.Now()
	log := opts.Log
	if log == nil {
		log = logger.New("batch")
		log.Discard()
	}
	log = log.WithFields("callID", util.GenCallID())

	parallel := opts.Parallelism
	if parallel < 1 {
		parallel = 1
	}

	results := make([]*Offer, len(hosts))
	errs := make([]error, len(hosts))

	wp := workerpool.New(parallel)
	for i, host := range hosts {
		i, host := i, host
		wp.Submit(func() {
			results[i], errs[i] = scoreHost(ctx, src, w, host, groups, log)
		})
	}
	wp.StopWait()

	var merr *multierror.Error
	offers := make([]*Offer, 0, len(hosts))
	for i, o := range results {
		if errs[i] != nil {
			log.Error("Failed to acquire provider tree", "host", hosts[i], "error", errs[i])
			if opts.Observer != nil {
				opts.Observer.ObserveSnapshotError(hosts[i], errs[i])
			}
			merr = multierror.Append(merr, &HostError{Host: hosts[i], Err: errs[i]})
			continue
		}
		if opts.Observer != nil {
			opts.Observer.ObserveOffer(o)
		}
		offers = append(offers, o)
	}

	d := time.Since(start)
	if opts.Observer != nil {
		opts.Observer.ObserveBatch(d)
	}
	log.Info("Scored hosts", "hosts", len(hosts), "offers", len(offers), "duration", d.String())
	return offers, merr.ErrorOrNil()
}

func scoreHost(ctx context.Context, src SnapshotSource, w *Weigher, host string, groups []DemandGroup, log *logger.Logger) (*Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := src.Snapshot(ctx, host)
	neutral := false
	switch {
	case errors.Is(err, placement.ErrNoRootProvider):
		log.Debug("No root provider for host", "host", host)
		tree = nil
		neutral = true
	case err != nil:
		return nil, err
	}

	s, stats := w.ScoreWithStats(tree, groups)
	if log.DebugEnabled() {
		log.Debug("Scored host", append([]interface{}{"host", host}, stats.LogFields()...)...)
	}
	o := NewOffer(host, s, stats)
	o.Neutral = neutral
	return o, nil
}
