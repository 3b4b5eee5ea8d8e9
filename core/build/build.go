package build

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/fontstacks/core/font/fontregistry"
	"github.com/npillmayer/fontstacks/core/glyphs"
	"github.com/npillmayer/fontstacks/core/locate/resources"
	"github.com/npillmayer/fontstacks/core/rasterize"
	"github.com/npillmayer/fontstacks/core/recipe"
	"github.com/npillmayer/schuko"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the number of ranges combined at the same time.
const DefaultWorkers = 16

// Fetcher makes font sources available as local files.
// resources.Fetcher is the canonical implementation.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
	BuildDir(source string) string
}

// Builder builds the styles of fonts.
type Builder struct {
	Fetcher    Fetcher
	Rasterizer rasterize.Rasterizer
	Registry   *fontregistry.Registry
	OutputDir  string
	Workers    int
	// OnRange, if set, is called after each range of a style has been
	// processed, from the worker's goroutine.
	OnRange func(style, rangeLabel string, written bool)
}

// Result summarizes the build of a style.
type Result struct {
	Style   string
	Written int // number of range files written
}

// New creates a builder from configuration keys `output` (default
// "output") and `workers`, plus the keys of resources.NewFetcher and
// rasterize.FromConfig.
func New(conf schuko.Configuration) (*Builder, error) {
	fetcher, err := resources.NewFetcher(conf)
	if err != nil {
		return nil, err
	}
	tool, err := rasterize.FromConfig(conf)
	if err != nil {
		return nil, err
	}
	b := &Builder{
		Fetcher:    fetcher,
		Rasterizer: tool,
		Registry:   fontregistry.GlobalRegistry(),
		OutputDir:  conf.GetString("output"),
		Workers:    DefaultWorkers,
	}
	if b.OutputDir == "" {
		b.OutputDir = "output"
	}
	if w := conf.GetString("workers"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || n < 1 {
			return nil, core.Error(core.EINVALID, "workers must be a positive number, is %q", w)
		}
		b.Workers = n
	}
	return b, nil
}

// Run builds all styles of a font, one after the other. It stops at the
// first style which fails.
func (b *Builder) Run(ctx context.Context, font *recipe.Font) ([]Result, error) {
	results := make([]Result, 0, len(font.Styles))
	for _, style := range font.Styles {
		res, err := b.BuildStyle(ctx, style)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	if b.Registry != nil {
		b.Registry.LogBuildList()
	}
	return results, nil
}

// BuildStyle fetches and rasterizes the variants of a style, then combines
// and writes its glyph ranges.
func (b *Builder) BuildStyle(ctx context.Context, style recipe.Style) (Result, error) {
	res := Result{Style: style.Name}
	tracer().Infof("building style %s from %d variants", style.Name, len(style.Variants))
	dirs, err := b.prepareVariants(ctx, style)
	if err != nil {
		tracer().Errorf("style %s: %v", style.Name, err)
		return res, err
	}
	outdir := filepath.Join(b.OutputDir, style.Name)
	var written int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())
	for i, label := range glyphs.Ranges() {
		i, label := i, label
		g.Go(func() error {
			ok, err := b.combineRange(gctx, style, dirs, outdir, i)
			if err != nil {
				return err
			}
			if ok {
				atomic.AddInt32(&written, 1)
			}
			if b.OnRange != nil {
				b.OnRange(style.Name, label, ok)
			}
			return nil
		})
	}
	err = g.Wait()
	res.Written = int(atomic.LoadInt32(&written))
	if err != nil {
		tracer().Errorf("style %s: %v", style.Name, err)
		return res, err
	}
	tracer().Infof("style %s: wrote %d ranges to %s", style.Name, res.Written, outdir)
	return res, nil
}

// prepareVariants returns the glyph directories of the variants of a
// style, in variant order.
func (b *Builder) prepareVariants(ctx context.Context, style recipe.Style) ([]string, error) {
	registry := b.Registry
	if registry == nil {
		registry = fontregistry.NewRegistry()
	}
	dirs := make([]string, len(style.Variants))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range style.Variants {
		i, source := i, v.URL
		g.Go(func() error {
			dir, err := registry.Prepare(gctx, source, func(ctx context.Context) (string, error) {
				return b.prepare(ctx, source)
			})
			dirs[i] = dir
			return err
		})
	}
	return dirs, g.Wait()
}

func (b *Builder) prepare(ctx context.Context, source string) (string, error) {
	fontfile, err := b.Fetcher.Fetch(ctx, source)
	if err != nil {
		return "", err
	}
	dir := b.Fetcher.BuildDir(source)
	if err = b.Rasterizer.Rasterize(ctx, fontfile, dir); err != nil {
		return "", err
	}
	return dir, nil
}

// combineRange combines range i from the variants' glyph directories.
// Variants without a container for the range are skipped. It reports
// whether a file has been written.
func (b *Builder) combineRange(ctx context.Context, style recipe.Style, dirs []string,
	outdir string, i int) (bool, error) {
	//
	if err := ctx.Err(); err != nil {
		return false, err
	}
	sources := make([]glyphs.Source, 0, len(dirs))
	for j, dir := range dirs {
		path := filepath.Join(dir, glyphs.RangeFile(i))
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return false, core.WrapError(err, core.EINVALID, "cannot read glyphs %s", path)
		}
		sources = append(sources, glyphs.Source{
			Data:   data,
			Offset: style.Variants[j].GlyphOffset(),
			Origin: path,
		})
	}
	combined, err := glyphs.Combine(sources, glyphs.NameBlank)
	if err != nil {
		return false, core.WrapError(err, core.Code(err), "style %s, range %s: %s",
			style.Name, glyphs.RangeLabel(i), core.UserMessage(err))
	}
	if combined == nil {
		return false, nil
	}
	if err = os.MkdirAll(outdir, 0755); err != nil {
		return false, core.WrapError(err, core.EINVALID, "output directory cannot be created: %s", outdir)
	}
	target := filepath.Join(outdir, glyphs.RangeFile(i))
	if err = os.WriteFile(target, combined, 0644); err != nil {
		return false, core.WrapError(err, core.EINVALID, "cannot write %s", target)
	}
	return true, nil
}

func (b *Builder) workers() int {
	if b.Workers < 1 {
		return DefaultWorkers
	}
	return b.Workers
}
