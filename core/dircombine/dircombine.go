/*
Package dircombine merges directories of pre-built glyph ranges.

Every input directory has to hold all 256 range files. For each range the
files are combined in the order the directories are given, so glyphs of
earlier directories win. The combined stack is named after all of its
constituents.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dircombine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/fontstacks/core/glyphs"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"
)

// tracer traces with key 'fontstacks.combine'.
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.combine")
}

// Options configure a directory merge.
type Options struct {
	Output  string   // target directory, created if necessary
	Inputs  []string // input directories, in priority order
	Workers int      // ranges processed at the same time; < 1 means 16
	// Rules select position corrections by stack name. Use
	// glyphs.DefaultOffsetRules() for the well-known cases.
	Rules []glyphs.OffsetRule
	// OnRange, if set, is called for every range written.
	OnRange func(rangeLabel string)
}

// Run combines all ranges of the input directories into the output
// directory. A range file missing from any input is an error with code
// core.ENORANGE; a range which cannot be combined into anything is an
// error with code core.EEMPTY. The first error stops the run.
func Run(ctx context.Context, opts Options) error {
	if opts.Output == "" {
		return core.Error(core.EINVALID, "missing required option: output directory")
	}
	if len(opts.Inputs) == 0 {
		return core.Error(core.EINVALID, "no input directories given")
	}
	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		return core.WrapError(err, core.EINVALID, "output directory cannot be created: %s", opts.Output)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 16
	}
	combiner := glyphs.Combiner{Naming: glyphs.NameJoin, Rules: opts.Rules}
	tracer().Infof("combining %d directories into %s", len(opts.Inputs), opts.Output)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, label := range glyphs.Ranges() {
		i, label := i, label
		g.Go(func() error {
			if err := combineRange(gctx, combiner, opts, i); err != nil {
				return err
			}
			if opts.OnRange != nil {
				opts.OnRange(label)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracer().Errorf("combining failed: %v", err)
		return err
	}
	return nil
}

func combineRange(ctx context.Context, combiner glyphs.Combiner, opts Options, i int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := glyphs.RangeFile(i)
	sources := make([]glyphs.Source, len(opts.Inputs))
	for j, dir := range opts.Inputs {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return core.WrapError(err, core.ENORANGE, "missing range file %s", path)
		} else if err != nil {
			return core.WrapError(err, core.EINVALID, "cannot read %s", path)
		}
		sources[j] = glyphs.Source{Data: data, Origin: path}
	}
	combined, err := combiner.Combine(sources)
	if err != nil {
		return core.WrapError(err, core.Code(err), "range %s: %s", name, core.UserMessage(err))
	}
	if combined == nil { // no sources; Run guards against this with its input check
		return core.Error(core.EEMPTY, "failed to combine glyphs for %s", name)
	}
	target := filepath.Join(opts.Output, name)
	if err = os.WriteFile(target, combined, 0644); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot write %s", target)
	}
	return nil
}
