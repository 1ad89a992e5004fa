// Package ingest drives the poll, parse, admit and lifecycle loop.
package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/killwatch/internal/admission"
	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/killmail"
	"github.com/osse101/killwatch/internal/lifecycle"
	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/metrics"
	"github.com/osse101/killwatch/internal/redisq"
)

// Source is the killmail queue. Poll is only ever called from one goroutine.
type Source interface {
	Poll(ctx context.Context) (*redisq.Package, error)
	Resolve(ctx context.Context, pkg *redisq.Package) error
}

// Parser turns a resolved package into a killmail
type Parser interface {
	Parse(pkg *redisq.Package) (*domain.Killmail, error)
}

// Admitter is the dedup and persistence gate
type Admitter interface {
	Admit(ctx context.Context, km *domain.Killmail) (*admission.Result, error)
}

// Pipeline polls packages on one goroutine and processes them in delivery
// order on another. Detail fetches for packages that arrive without a body
// run concurrently with the next poll, bounded by the detail limit.
type Pipeline struct {
	source      Source
	parser      Parser
	gate        Admitter
	manager     lifecycle.Manager
	detailLimit int
}

// pending is a polled package waiting for its detail fetch
type pending struct {
	ctx   context.Context
	pkg   *redisq.Package
	ready chan error
}

// NewPipeline creates the ingest loop
func NewPipeline(source Source, parser Parser, gate Admitter, manager lifecycle.Manager, detailLimit int) *Pipeline {
	if detailLimit < 1 {
		detailLimit = 1
	}
	return &Pipeline{
		source:      source,
		parser:      parser,
		gate:        gate,
		manager:     manager,
		detailLimit: detailLimit,
	}
}

// Run polls until ctx is cancelled. Every package a poll returned is still
// fetched and admitted on a context that ignores the cancel. Run returns nil
// on cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgPipelineStarted, "detail_limit", p.detailLimit)

	queue := make(chan *pending, p.detailLimit)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for item := range queue {
			p.process(item)
		}
	}()

	p.poll(ctx, queue)
	close(queue)
	<-done

	logger.FromContext(ctx).Info(LogMsgPipelineStopped)
	return nil
}

func (p *Pipeline) poll(ctx context.Context, queue chan<- *pending) {
	var fetches errgroup.Group
	fetches.SetLimit(p.detailLimit)
	defer fetches.Wait() //nolint:errcheck // fetch goroutines never return an error

	for ctx.Err() == nil {
		cycleCtx := logger.WithCycleID(ctx, logger.GenerateCycleID())

		pkg, err := p.source.Poll(cycleCtx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.FromContext(cycleCtx).Error(LogMsgPollFailed, "error", err)
			continue
		}
		if pkg == nil {
			continue
		}

		// The upstream has handed the package over and will not deliver it
		// again, so its fetch and hand-off ignore the stop signal.
		item := &pending{ctx: cycleCtx, pkg: pkg, ready: make(chan error, 1)}
		if pkg.NeedsDetail() {
			fetchCtx := context.WithoutCancel(cycleCtx)
			fetches.Go(func() error {
				item.ready <- p.source.Resolve(fetchCtx, pkg)
				return nil
			})
		} else {
			item.ready <- nil
		}
		queue <- item
	}
}

// process runs one package through parse, admission and the aggregate
// lifecycle. Nothing here is fatal to the loop.
func (p *Pipeline) process(item *pending) {
	log := logger.FromContext(item.ctx).With("package_id", item.pkg.KillID)

	if err := <-item.ready; err != nil {
		log.Warn(LogMsgPackageSkipped, "error", err)
		return
	}

	km, err := p.parser.Parse(item.pkg)
	if err != nil {
		metrics.KillmailsRejected.WithLabelValues(killmail.RejectReason(err)).Inc()
		log.Warn(LogMsgKillmailRejected, "reason", killmail.RejectReason(err), "error", err)
		return
	}

	ctx := logger.WithKillmailID(context.WithoutCancel(item.ctx), km.ID)
	log = logger.FromContext(ctx)

	res, err := p.gate.Admit(ctx, km)
	if err != nil {
		log.Error(LogMsgAdmitFailed, "error", err)
		return
	}
	if res.Duplicate {
		log.Debug(LogMsgDuplicate, "layer", res.DuplicateLayer)
		return
	}

	if err := p.manager.OnAdmitted(ctx, km, res); err != nil {
		log.Error(LogMsgLifecycleFailed, "error", err)
		return
	}
	log.Debug(LogMsgKillmailAdmitted,
		"system_id", km.SystemID,
		"value", km.Value,
		"battle_id", res.BattleID,
		"hotspot_count", res.Hotspot.Count)
}
