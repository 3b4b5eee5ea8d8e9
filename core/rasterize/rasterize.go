/*
Package rasterize drives the external glyph builder.

The builder is an opaque binary, invoked as

	<tool> <font file> <output directory>

which writes one glyph container "<range>.pbf" for every codepoint range
the font covers. node-fontnik's build-glyphs is such a tool.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rasterize

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontstacks.raster'.
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.raster")
}

// Rasterizer renders the glyphs of a font file into per-range glyph
// containers within outdir.
type Rasterizer interface {
	Rasterize(ctx context.Context, fontfile, outdir string) error
}

// DefaultTool is the builder used if none is configured.
const DefaultTool = "build-glyphs"

// Tool is a Rasterizer calling an external binary.
type Tool struct {
	Binary string
}

var _ Rasterizer = (*Tool)(nil)

// FromConfig locates the builder binary set as `rasterizer` in conf,
// defaulting to DefaultTool on the PATH.
func FromConfig(conf schuko.Configuration) (*Tool, error) {
	bin := conf.GetString("rasterizer")
	if bin == "" {
		tracer().Infof("rasterizer not configured, looking for %s on PATH", DefaultTool)
		bin = DefaultTool
	}
	binpath, err := exec.LookPath(bin)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING,
			"glyph builder not found: %s (configure with 'rasterizer')", bin)
	}
	if fi, err := os.Stat(binpath); err != nil || fi.IsDir() || (fi.Mode().Perm()&0100) == 0 {
		return nil, core.WrapError(err, core.EINVALID,
			"rasterizer configuration points to an invalid binary: %s", binpath)
	}
	return &Tool{Binary: binpath}, nil
}

// Rasterize runs the builder for fontfile, creating outdir if necessary.
// A non-zero exit status is reported as an error with code core.EBUILD.
func (t *Tool) Rasterize(ctx context.Context, fontfile, outdir string) error {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return core.WrapError(err, core.EINVALID, "glyph output path cannot be created: %s", outdir)
	}
	cmd := exec.CommandContext(ctx, t.Binary, fontfile, outdir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	tracer().Debugf("running %s %s %s", t.Binary, fontfile, outdir)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := lastLine(stderr.String())
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			tracer().Errorf("%s failed for %s: %s", t.Binary, fontfile, msg)
			return core.WrapError(err, core.EBUILD, "failed to build glyphs for %s (exit status %d): %s",
				fontfile, exit.ExitCode(), msg)
		}
		return core.WrapError(err, core.EBUILD, "cannot run glyph builder %s", t.Binary)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
