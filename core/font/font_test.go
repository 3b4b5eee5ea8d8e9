package font

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParseGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.fonts")
	defer teardown()
	//
	f, err := ParseOpenTypeFont(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if f.Family != "Go" {
		t.Errorf("expected family of Go Regular to be 'Go', is %q", f.Family)
	}
	if f.NumGlyphs() == 0 {
		t.Errorf("expected Go Regular to have glyphs")
	}
	if f.Faces != 1 {
		t.Errorf("expected a single face, have %d", f.Faces)
	}
}

func TestInspectRejectsMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.fonts")
	defer teardown()
	//
	dir := t.TempDir()
	html := filepath.Join(dir, "error.ttf")
	if err := os.WriteFile(html, []byte("\n<!DOCTYPE html><html><body>rate limited</body></html>"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Inspect(html)
	if core.Code(err) != core.EINVALID {
		t.Errorf("expected EINVALID for HTML payload, got %v", err)
	}
	_, err = Inspect(filepath.Join(dir, "missing.ttf"))
	if core.Code(err) != core.EMISSING {
		t.Errorf("expected EMISSING for missing file, got %v", err)
	}
}

func TestInspectPassesUnparseableFonts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.fonts")
	defer teardown()
	//
	woff := filepath.Join(t.TempDir(), "Font.woff")
	if err := os.WriteFile(woff, append([]byte("wOFF\x00\x01\x00\x00"), goregular.TTF[:64]...), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Inspect(woff)
	if err != nil {
		t.Fatalf("expected font unknown to sfnt to pass, got %v", err)
	}
	if f != nil {
		t.Errorf("expected no font record for unparsed file, got %+v", f)
	}
}

func TestIsMarkup(t *testing.T) {
	for _, doc := range []string{"<html>", "  <!doctype html>", "\ufeff<?xml version=\"1.0\"?>", "<HEAD>"} {
		if !IsMarkup([]byte(doc)) {
			t.Errorf("expected %q to be recognized as markup", doc)
		}
	}
	if IsMarkup(goregular.TTF) {
		t.Errorf("TrueType font taken for markup")
	}
	if IsMarkup(nil) {
		t.Errorf("empty payload taken for markup")
	}
}

func TestInspectFontFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Go-Regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Inspect(path)
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.Filepath != path || f.Fontname == "" {
		t.Errorf("unexpected font record %+v", f)
	}
}
