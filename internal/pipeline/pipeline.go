// Package pipeline stripifies batches of meshes concurrently and reports
// the vertex cache statistics before and after.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-strip/internal/meshdata"
	"github.com/Faultbox/midgard-strip/pkg/tristrip"
)

// Job is one mesh to stripify.
type Job struct {
	Source string // file or archive path the mesh came from
	Mesh   *meshdata.Mesh
}

// Options configures Run.
type Options struct {
	Strip tristrip.Options
	// Workers bounds the meshes processed at once. Zero means one per CPU.
	Workers int
	// StatsCacheSize is the FIFO size used for the before and after
	// statistics. Zero means tristrip.DefaultVertexCacheSize.
	StatsCacheSize int
	Logger         *zap.Logger
}

// Run stripifies every job's mesh in place and returns one report per job,
// in job order. A failing mesh is recorded in its report and does not stop
// the batch; only cancellation of ctx does.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Report, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("pipeline")

	stripper, err := tristrip.New(opts.Strip, log.Named("tristrip"))
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	cacheSize := opts.StatsCacheSize
	if cacheSize <= 0 {
		cacheSize = tristrip.DefaultVertexCacheSize
	}

	reports := make([]Report, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = process(stripper, job, cacheSize, log)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	if err := ctx.Err(); err != nil {
		return reports, err
	}

	log.Info("batch done",
		zap.Int("meshes", len(jobs)),
		zap.Int("workers", workers))
	return reports, nil
}

func process(s *tristrip.Stripper, job Job, cacheSize int, log *zap.Logger) Report {
	m := job.Mesh
	r := Report{
		Name:     m.Name,
		Source:   job.Source,
		Vertices: m.VertexCount(),
	}
	if indices := m.Indices(); indices != nil {
		r.Before = tristrip.AnalyzeList(indices, cacheSize)
	}

	start := time.Now()
	if err := s.Visit(m); err != nil {
		r.Err = err.Error()
		log.Warn("mesh failed", zap.String("mesh", m.Name), zap.Error(err))
		return r
	}
	elapsed := time.Since(start)

	r.After = tristrip.Analyze(m.Primitives, cacheSize)
	for _, p := range m.Primitives {
		r.Groups = append(r.Groups, GroupReport{Mode: p.Mode.String(), Indices: p.Count()})
	}

	log.Debug("mesh stripped",
		zap.String("mesh", m.Name),
		zap.Int("triangles", r.After.Triangles),
		zap.Float64("acmr_before", r.Before.ACMR),
		zap.Float64("acmr_after", r.After.ACMR),
		zap.Duration("elapsed", elapsed))
	return r
}
