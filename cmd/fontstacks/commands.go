package main

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/fontstacks/core/build"
	"github.com/npillmayer/fontstacks/core/dircombine"
	"github.com/npillmayer/fontstacks/core/glyphs"
	"github.com/npillmayer/fontstacks/core/recipe"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/pterm/pterm"
)

// BuildCmd builds all styles of one font of a recipe.
type BuildCmd struct {
	Font       string `arg:"" help:"Name of the font in the recipe"`
	Recipe     string `short:"r" default:"recipe.json" type:"existingfile" help:"Recipe file (JSON or YAML)"`
	Output     string `short:"o" default:"output" type:"path" help:"Output directory"`
	Style      string `short:"s" help:"Build only this style"`
	Rasterizer string `default:"build-glyphs" env:"FONTSTACKS_RASTERIZER" help:"Glyph rasterizer executable"`
	Workers    int    `short:"w" default:"16" help:"Ranges combined in parallel"`
	CacheDir   string `type:"path" env:"FONTSTACKS_CACHE" help:"Download and build cache (default: user cache dir)"`
	APIKey     string `name:"google-api-key" env:"GOOGLE_API_KEY" help:"API key for google: sources"`
}

// config translates the flags into the configuration keys of the core
// packages.
func (c *BuildCmd) config() testconfig.Conf {
	return testconfig.Conf{
		"app-key":        "fontstacks",
		"cache-dir":      c.CacheDir,
		"output":         c.Output,
		"rasterizer":     c.Rasterizer,
		"workers":        strconv.Itoa(c.Workers),
		"google-api-key": c.APIKey,
	}
}

func (c *BuildCmd) Run(g *Globals) error {
	rcp, err := recipe.Load(c.Recipe)
	if err != nil {
		return err
	}
	font, err := selectStyles(rcp, c.Font, c.Style)
	if err != nil {
		return err
	}
	builder, err := build.New(c.config())
	if err != nil {
		return err
	}
	prog := &progress{}
	builder.OnRange = prog.step
	results, err := builder.Run(g.context(), font)
	prog.stop()
	if err != nil {
		return err
	}
	pterm.Success.Printfln("built %d style(s) of %s into %s", len(results), font.Name, c.Output)
	return buildSummary(results)
}

// selectStyles finds a font in a recipe, optionally reduced to one style.
func selectStyles(rcp *recipe.Recipe, fontname, stylename string) (*recipe.Font, error) {
	font, err := rcp.Font(fontname)
	if err != nil {
		return nil, err
	}
	if stylename == "" {
		return font, nil
	}
	style, err := font.Style(stylename)
	if err != nil {
		return nil, err
	}
	return &recipe.Font{Name: font.Name, Styles: []recipe.Style{*style}}, nil
}

func buildSummary(results []build.Result) error {
	data := pterm.TableData{{"Style", "Ranges written"}}
	for _, r := range results {
		data = append(data, []string{r.Style, strconv.Itoa(r.Written)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// progress shows one progress bar per style. Styles are built one after
// the other, ranges of a style concurrently.
type progress struct {
	sync.Mutex
	style string
	bar   *pterm.ProgressbarPrinter
}

func (p *progress) step(style, rangeLabel string, written bool) {
	p.Lock()
	defer p.Unlock()
	if style != p.style {
		p.stopBar()
		p.style = style
		p.bar, _ = pterm.DefaultProgressbar.WithTotal(glyphs.RangeCount).WithTitle(style).Start()
	}
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *progress) stop() {
	p.Lock()
	defer p.Unlock()
	p.stopBar()
}

func (p *progress) stopBar() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
}

// CombineCmd merges directories of pre-built glyph ranges.
type CombineCmd struct {
	Output         string   `short:"o" required:"" type:"path" help:"Output directory"`
	Inputs         []string `arg:"" help:"Glyph directories, in priority order"`
	OffsetRule     []string `name:"offset-rule" help:"Position correction for stacks by name: <regexp>=<top>[,<left>]"`
	NoDefaultRules bool     `help:"Do not apply the built-in position corrections"`
	Workers        int      `short:"w" default:"16" help:"Ranges combined in parallel"`
}

func (c *CombineCmd) Run(g *Globals) error {
	rules, err := c.rules()
	if err != nil {
		return err
	}
	written := 0
	var mu sync.Mutex
	err = dircombine.Run(g.context(), dircombine.Options{
		Output:  c.Output,
		Inputs:  c.Inputs,
		Workers: c.Workers,
		Rules:   rules,
		OnRange: func(string) {
			mu.Lock()
			written++
			mu.Unlock()
		},
	})
	if err != nil {
		return err
	}
	pterm.Success.Printfln("combined %d ranges of %d directories into %s", written, len(c.Inputs), c.Output)
	return nil
}

// rules puts user rules before the default ones, so they take precedence.
func (c *CombineCmd) rules() ([]glyphs.OffsetRule, error) {
	var rules []glyphs.OffsetRule
	for _, s := range c.OffsetRule {
		r, err := glyphs.ParseOffsetRule(s)
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "invalid --offset-rule")
		}
		rules = append(rules, r)
	}
	if !c.NoDefaultRules {
		rules = append(rules, glyphs.DefaultOffsetRules()...)
	}
	return rules, nil
}

// ListCmd shows the fonts and styles of a recipe.
type ListCmd struct {
	Recipe string `short:"r" default:"recipe.json" type:"existingfile" help:"Recipe file (JSON or YAML)"`
}

func (c *ListCmd) Run(g *Globals) error {
	rcp, err := recipe.Load(c.Recipe)
	if err != nil {
		return err
	}
	return pterm.DefaultBulletList.WithItems(recipeItems(rcp)).Render()
}

func recipeItems(rcp *recipe.Recipe) []pterm.BulletListItem {
	var items []pterm.BulletListItem
	for _, font := range rcp.Fonts {
		items = append(items, pterm.BulletListItem{Level: 0, Text: font.Name})
		for _, style := range font.Styles {
			items = append(items, pterm.BulletListItem{Level: 1, Text: style.Name})
			for _, v := range style.Variants {
				text := v.URL
				if off := v.GlyphOffset(); !off.IsZero() {
					text = fmt.Sprintf("%s %v", v.URL, off)
				}
				items = append(items, pterm.BulletListItem{Level: 2, Text: text})
			}
		}
	}
	return items
}
