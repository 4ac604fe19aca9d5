package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"runtime/debug"
	"slices"
	"time"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"csi/config"
	"csi/inspect"
)

// outcome is analysis result of a single source.
type outcome struct {
	Source string
	Result *inspect.Result
	Err    error
}

// analyzeSources runs analysis of all sources using up to workers goroutines.
// Outcomes are returned in natural order of source names. Failure of a single
// source does not stop the others, all failures are combined in returned
// error.
func analyzeSources(ctx context.Context, an *inspect.Analyzer, sources []source, workers int, rpt *config.Report, log *zap.Logger) ([]outcome, error) {
	outcomes := make([]outcome, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = analyzeSource(an, src, rpt, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(outcomes, func(a, b outcome) int {
		switch {
		case natural.Less(a.Source, b.Source):
			return -1
		case natural.Less(b.Source, a.Source):
			return 1
		}
		return 0
	})

	var errs error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", o.Source, o.Err))
		}
	}
	return outcomes, errs
}

// analyzeSource processes single source. Panics are turned into errors so one
// broken source does not take down the whole run.
func analyzeSource(an *inspect.Analyzer, src source, rpt *config.Report, log *zap.Logger) (out outcome) {
	out.Source = src.name

	log.Debug("Analysis starting", zap.String("source", src.name))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Analysis ended with panic",
				zap.String("source", src.name), zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			out.Result, out.Err = nil, fmt.Errorf("analysis panic: %v", r)
			return
		}
		log.Debug("Analysis completed", zap.String("source", src.name), zap.Duration("elapsed", time.Since(start)), zap.Bool("failed", out.Err != nil))
	}(time.Now())

	data, err := src.read()
	if err != nil {
		out.Err = fmt.Errorf("unable to read source: %w", err)
		return out
	}

	text := string(data)
	if src.html {
		if text, err = extractStyles(data); err != nil {
			out.Err = err
			return out
		}
	}
	out.Result = an.Analyze(text, src.name)

	if rpt != nil {
		storeDebug(rpt, src, data, out.Result)
	}
	return out
}

// storeDebug puts analyzed source and its result into debug report.
func storeDebug(rpt *config.Report, src source, data []byte, res *inspect.Result) {
	base := "sources/" + slug.Make(src.name)
	if src.path != "" {
		if err := rpt.StoreCopy(base+path.Ext(src.path), src.path); err != nil {
			rpt.StoreData(base+".src", data)
		}
	} else {
		rpt.StoreData(base+".src", data)
	}
	if js, err := json.MarshalIndent(res, "", "  "); err == nil {
		rpt.StoreData(base+".result.json", js)
	}
}
