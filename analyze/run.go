// Package analyze implements command line actions: finding stylesheets to
// inspect, running analysis and presenting results.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"csi/archive"
	"csi/bcd"
	"csi/config"
	"csi/inspect"
	"csi/state"
)

// Run is the action of analyze command.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("analyze")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	src := cmd.Args().Get(0)

	if err := applyFlags(env, cmd, log); err != nil {
		return err
	}
	if err := loadKnowledgeBase(env, cmd.String("data"), log); err != nil {
		return err
	}

	log.Info("Analysis starting", zap.String("source", src), zap.Stringer("format", env.Format), zap.Stringer("language", env.Language))
	defer func(start time.Time) {
		log.Info("Analysis finished", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, env, src, os.Stdin, os.Stdout, log)
}

// applyFlags merges command line flags with configuration.
func applyFlags(env *state.LocalEnv, cmd *cli.Command, log *zap.Logger) error {
	var err error

	env.Format = env.Cfg.Analysis.Format
	if cmd.IsSet("format") {
		if env.Format, err = config.ParseOutputFmt(cmd.String("format")); err != nil {
			log.Warn("Unknown output format requested, switching to text", zap.Error(err))
			env.Format = config.OutputFmtText
		}
	}

	lang := env.Cfg.Analysis.Language
	if cmd.IsSet("lang") {
		lang = cmd.String("lang")
	}
	tag, err := language.Parse(lang)
	if err != nil {
		log.Warn("Unknown language requested, switching to english", zap.String("language", lang), zap.Error(err))
		tag = language.English
	}
	env.Language = inspect.MatchLanguage(tag)

	env.ShowFeatures = env.Cfg.Analysis.ShowFeatures || cmd.Bool("features")
	env.Overwrite = cmd.Bool("overwrite")
	if out := cmd.String("output"); len(out) > 0 {
		if env.OutputDir, err = filepath.Abs(out); err != nil {
			return err
		}
	}
	return nil
}

// loadKnowledgeBase loads compatibility data once per run, path from command
// line takes precedence over configuration.
func loadKnowledgeBase(env *state.LocalEnv, path string, log *zap.Logger) error {
	if env.KB != nil {
		return nil
	}
	if len(path) == 0 {
		path = env.Cfg.Analysis.KnowledgeBase
	}
	if len(path) == 0 {
		return errors.New("no compatibility data has been specified, use --data or analysis.knowledge_base")
	}

	start := time.Now()
	kb, err := bcd.LoadFile(path, log)
	if err != nil {
		return err
	}
	env.KB = kb
	env.Rpt.Store("data/"+filepath.Base(path), path)

	log.Debug("Compatibility data loaded",
		zap.String("file", path), zap.String("version", kb.Version),
		zap.Int("properties", kb.PropertyCount()), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// process handles analysis independently of CLI framework.
func process(ctx context.Context, env *state.LocalEnv, src string, stdin io.Reader, stdout io.Writer, log *zap.Logger) error {
	d := &discoverer{
		filter: archive.Extensions(env.Cfg.Analysis.Extensions...),
		stdin:  stdin,
		log:    log,
	}
	sources, err := d.discover(ctx, src)
	if err != nil {
		return err
	}

	an := inspect.NewAnalyzer(env.KB, log, inspect.WithLanguage(env.Language))
	outcomes, aerr := analyzeSources(ctx, an, sources, env.Cfg.Analysis.EffectiveWorkers(), env.Rpt, log)
	if outcomes == nil && aerr != nil {
		// interrupted
		return aerr
	}

	r := newRenderer(env.Format, env.KB.Version, env.ShowFeatures)
	if len(env.OutputDir) == 0 {
		if err := r.render(stdout, outcomes); err != nil {
			return err
		}
	} else if err := writeReports(r, env.OutputDir, env.Overwrite, outcomes, log); err != nil {
		return err
	}
	if aerr != nil {
		return fmt.Errorf("unable to analyze some sources: %w", aerr)
	}
	return nil
}

// writeReports saves report of every source into its own file in dir.
func writeReports(r *renderer, dir string, overwrite bool, outcomes []outcome, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	for _, o := range outcomes {
		name := reportPath(dir, o.Source, r.format.Ext())
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
		if _, err := os.Stat(name); err == nil {
			if !overwrite {
				return fmt.Errorf("output file already exists: %s", name)
			}
			log.Warn("Overwriting existing file", zap.String("file", name))
		} else if !os.IsNotExist(err) {
			return err
		}

		if err := writeReport(r, name, o); err != nil {
			return err
		}
		log.Debug("Report written", zap.String("source", o.Source), zap.String("file", name))
	}
	return nil
}

// reportPath mirrors source name ("css/site.css", "book.epub/OEBPS/style.css")
// under dir, so sources from different directories never share report file.
func reportPath(dir, source, ext string) string {
	elems := strings.Split(source, "/")
	for i, e := range elems {
		elems[i] = config.CleanFileName(e)
	}
	elems[len(elems)-1] += ext
	return filepath.Join(append([]string{dir}, elems...)...)
}

func writeReport(r *renderer, name string, o outcome) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return r.render(f, []outcome{o})
}

// Latest is the action of latest command.
func Latest(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("latest")

	if err := loadKnowledgeBase(env, cmd.String("data"), log); err != nil {
		return err
	}
	return printLatest(os.Stdout, env.KB)
}

func printLatest(w io.Writer, kb *bcd.Data) error {
	tw := newTreeWriter()
	if kb.Version != "" {
		tw.Line(0, "compatibility data %s", kb.Version)
	}
	rows := make([][]string, 0, bcd.BrowserCount)
	for _, b := range bcd.Browsers() {
		rel, ok := kb.LatestRelease(b)
		if !ok {
			rows = append(rows, []string{b.Title(), "unknown"})
			continue
		}
		row := []string{b.Title(), rel.ID}
		if rel.Date != "" {
			row = append(row, rel.Date)
		}
		if rel.Status != "" && rel.Status != bcd.ReleaseCurrent {
			row = append(row, rel.Status)
		}
		rows = append(rows, row)
	}
	tw.Table(0, rows)
	_, err := tw.WriteTo(w)
	return err
}
