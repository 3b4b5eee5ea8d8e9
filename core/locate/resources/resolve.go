package resources

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/fontstacks/core/font"
	"github.com/npillmayer/schuko"
)

// Source schemes besides plain URLs and file paths.
const (
	SystemScheme = "system:" // system:<font name>, located in the platform's font folders
	GoogleScheme = "google:" // google:<family>[:<variant>], taken from Google webfonts
	FileScheme   = "file://"
)

// Fetcher makes font sources available as local files.
type Fetcher struct {
	CacheDir string
	Client   *http.Client
	google   *googleDirectory
}

// NewFetcher creates a fetcher caching to the directory derived from conf
// (see CacheDirPath). Google webfonts are looked up at `google-fonts-api`
// with key `google-api-key`, if configured.
func NewFetcher(conf schuko.Configuration) (*Fetcher, error) {
	cachedir, err := CacheDirPath(conf, "fonts")
	if err != nil {
		return nil, err
	}
	f := &Fetcher{CacheDir: cachedir, Client: http.DefaultClient}
	api := conf.GetString("google-fonts-api")
	if api == "" {
		api = DefaultGoogleFontsAPI
	}
	f.google = &googleDirectory{
		api:    api,
		apikey: conf.GetString("google-api-key"),
		client: f.Client,
	}
	return f, nil
}

// BuildDir is the directory the glyph containers of a source go to.
func (f *Fetcher) BuildDir(source string) string {
	return filepath.Join(f.CacheDir, CacheKey(source))
}

// Fetch resolves a source locator to a local font file. Sources may be
//
//	https://…/Font.ttf       downloaded to the cache directory (or re-used from there)
//	https://…/Font.ttf.xz    as above, plus decompression
//	system:Arial Unicode     a font installed on this machine
//	google:Roboto:700        a Google webfont family and variant
//	file:///path/Font.otf    a local file; a plain path works as well
//
// Markup payloads (error pages) are rejected. Other files which do not
// parse as fonts here, like WOFF, are left to the glyph builder.
func (f *Fetcher) Fetch(ctx context.Context, source string) (string, error) {
	fpath, err := f.locate(ctx, source)
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(fpath, ".xz") {
		if fpath, err = Decompress(fpath); err != nil {
			return "", err
		}
	}
	sf, err := font.Inspect(fpath)
	if err != nil {
		return "", err
	}
	if sf != nil {
		tracer().Infof("source %s is font %q", source, sf.Fontname)
	}
	return fpath, nil
}

func (f *Fetcher) locate(ctx context.Context, source string) (string, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return f.download(ctx, source)
	case strings.HasPrefix(source, SystemScheme):
		name := strings.TrimSpace(strings.TrimPrefix(source, SystemScheme))
		fpath, err := findfont.Find(name)
		if err != nil || fpath == "" {
			return "", NotFound(source, fontResourceType)
		}
		tracer().Debugf("%s is a system font at %s", name, fpath)
		return fpath, nil
	case strings.HasPrefix(source, GoogleScheme):
		family, variant, _ := strings.Cut(strings.TrimPrefix(source, GoogleScheme), ":")
		u, err := f.google.find(ctx, family, variant)
		if err != nil {
			return "", err
		}
		return f.download(ctx, u)
	}
	fpath := strings.TrimPrefix(source, FileScheme)
	if _, err := os.Stat(fpath); err != nil {
		return "", core.WrapError(err, core.EMISSING, "font not found: %s", fpath)
	}
	return fpath, nil
}

func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	fpath := CachedFilePath(f.CacheDir, url)
	if exists(fpath) {
		tracer().Debugf("re-using download of %s", url)
		return fpath, nil
	}
	tracer().Infof("downloading %s", url)
	if err := DownloadCachedFile(ctx, f.Client, fpath, url); err != nil {
		return "", err
	}
	return fpath, nil
}

type resourceType int

// resource types
const (
	unknownResourceType resourceType = iota
	fontResourceType
)

// NotFound returns an application error for a missing resource.
func NotFound(res string, rtype resourceType) error {
	if rtype == fontResourceType {
		return core.Error(core.EMISSING, "font not found: %s", res)
	}
	return core.Error(core.EMISSING, "resource not found: %s", res)
}
