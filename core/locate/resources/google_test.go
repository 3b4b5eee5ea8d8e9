package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

const exampleRespFragm string = `
{
    "kind": "webfonts#webfontList",
    "items": [
        {
            "kind": "webfonts#webfont",
            "family": "Anonymous Pro",
            "variants": [ "regular", "italic", "700", "700italic" ],
            "subsets": [ "greek", "latin", "cyrillic" ],
            "version": "v3",
            "lastModified": "2012-07-25",
            "files": {
                "regular": "{{host}}/anonymouspro/regular.ttf",
                "italic": "{{host}}/anonymouspro/italic.ttf",
                "700": "{{host}}/anonymouspro/700.ttf",
                "700italic": "{{host}}/anonymouspro/700italic.ttf"
            }
        },
        {
            "kind": "webfonts#webfont",
            "family": "Antic",
            "variants": [ "regular" ],
            "subsets": [ "latin" ],
            "version": "v4",
            "lastModified": "2012-07-25",
            "files": {
                "regular": "{{host}}/antic/regular.ttf"
            }
        }
    ]
}
`

// fontService serves a Google webfont directory and font files (all of
// them Go Regular, as TTF or WOFF). It counts font downloads.
func fontService(t *testing.T, downloads *int) *httptest.Server {
	woff := wrapWOFF(t, goregular.TTF)
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/webfonts":
			if r.URL.Query().Get("key") != "test-key" {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			w.Write([]byte(strings.ReplaceAll(exampleRespFragm, "{{host}}", srv.URL)))
		case strings.HasSuffix(r.URL.Path, ".ttf"):
			*downloads++
			w.Write(goregular.TTF)
		case strings.HasSuffix(r.URL.Path, ".woff"):
			*downloads++
			w.Write(woff)
		case r.URL.Path == "/broken.otf":
			w.Write([]byte("<html>not a font</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testFetcher(t *testing.T, srv *httptest.Server, apikey string) *Fetcher {
	conf := testconfig.Conf{
		"cache-dir":        t.TempDir(),
		"google-fonts-api": srv.URL + "/webfonts",
		"google-api-key":   apikey,
	}
	f, err := NewFetcher(conf)
	require.NoError(t, err)
	f.Client = srv.Client()
	f.google.client = srv.Client()
	return f
}

func TestFetchGoogleFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.resources")
	defer teardown()
	//
	var downloads int
	srv := fontService(t, &downloads)
	f := testFetcher(t, srv, "test-key")
	path, err := f.Fetch(context.Background(), "google:Anonymous Pro:700italic")
	require.NoError(t, err)
	assert.Equal(t, CachedFilePath(f.CacheDir, srv.URL+"/anonymouspro/700italic.ttf"), path)
	path, err = f.Fetch(context.Background(), "google:antic")
	require.NoError(t, err)
	assert.Equal(t, CachedFilePath(f.CacheDir, srv.URL+"/antic/regular.ttf"), path)
	assert.Equal(t, 2, downloads)
	//
	_, err = f.Fetch(context.Background(), "google:Antic:bold")
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, err = f.Fetch(context.Background(), "google:Inconsolata")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestGoogleDirectoryNeedsKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.resources")
	defer teardown()
	t.Setenv("GOOGLE_API_KEY", "")
	//
	var downloads int
	srv := fontService(t, &downloads)
	f := testFetcher(t, srv, "")
	_, err := f.Fetch(context.Background(), "google:Antic")
	assert.Equal(t, core.EMISSING, core.Code(err))
	//
	f = testFetcher(t, srv, "wrong-key")
	_, err = f.Fetch(context.Background(), "google:Antic")
	assert.True(t, core.IsDownloadError(err))
}

func TestFetchURLIsCached(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.resources")
	defer teardown()
	//
	var downloads int
	srv := fontService(t, &downloads)
	f := testFetcher(t, srv, "")
	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), srv.URL+"/fonts/Go-Regular.ttf")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, downloads)
}

func TestFetchFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.resources")
	defer teardown()
	//
	var downloads int
	srv := fontService(t, &downloads)
	f := testFetcher(t, srv, "")
	_, err := f.Fetch(context.Background(), srv.URL+"/nothing-here.otf")
	assert.True(t, core.IsDownloadError(err))
	_, err = f.Fetch(context.Background(), srv.URL+"/broken.otf")
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = f.Fetch(context.Background(), "/does/not/exist.ttf")
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, err = f.Fetch(context.Background(), "system:No Such Font Family 4711")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestBuildDir(t *testing.T) {
	f := &Fetcher{CacheDir: "/cache"}
	u := "https://example.org/A.ttf"
	assert.Equal(t, strings.TrimSuffix(CachedFilePath("/cache", u), ".ttf"), f.BuildDir(u))
}

func TestGoogleDirectoryRetriesAfterCancel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.resources")
	defer teardown()
	//
	var downloads int
	srv := fontService(t, &downloads)
	f := testFetcher(t, srv, "test-key")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Fetch(ctx, "google:Antic")
	require.Error(t, err)
	path, err := f.Fetch(context.Background(), "google:Antic")
	require.NoError(t, err)
	assert.Equal(t, CachedFilePath(f.CacheDir, srv.URL+"/antic/regular.ttf"), path)
}
