// Command fontstacks builds composite SDF glyph ranges for map rendering.
//
//	fontstacks build --recipe recipe.json noto
//	fontstacks combine --output out/ glyphs/latin glyphs/cjk
//	fontstacks list --recipe recipe.json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

const version = "0.4.0"

// tracer traces with key 'fontstacks.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.cli")
}

// Globals are flags shared by all commands.
type Globals struct {
	Trace string `help:"Trace level [Debug|Info|Error]" default:"Error" enum:"Debug,Info,Error"`

	ctx context.Context `kong:"-"`
}

type cli struct {
	Globals

	Build   BuildCmd   `cmd:"" help:"Download, rasterize and combine the styles of a font"`
	Combine CombineCmd `cmd:"" help:"Combine directories of pre-built glyph ranges"`
	List    ListCmd    `cmd:"" help:"List fonts and styles of a recipe"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// traceKeys are the tracers of all packages of this module.
var traceKeys = []string{
	"fontstacks.cli",
	"fontstacks.build",
	"fontstacks.combine",
	"fontstacks.glyphs",
	"fontstacks.fonts",
	"fontstacks.raster",
	"fontstacks.recipe",
	"fontstacks.resources",
}

func main() {
	initDisplay()
	var app cli
	kctx := kong.Parse(&app,
		kong.Name("fontstacks"),
		kong.Description("Builds composite SDF glyph ranges for map rendering."),
		kong.UsageOnError(),
	)
	if err := setupTracing(app.Trace); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracer().Infof("Trace level is %s", app.Trace)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	app.ctx = ctx
	err := kctx.Run(&app.Globals)
	stop()
	if err != nil {
		tracer().Errorf(err.Error())
		core.UserError(err)
		os.Exit(core.ExitCode(err))
	}
}

// set up logging
func setupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func (g *Globals) context() context.Context {
	if g.ctx == nil {
		return context.Background()
	}
	return g.ctx
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Printf("fontstacks version %s\n", version)
	return nil
}
