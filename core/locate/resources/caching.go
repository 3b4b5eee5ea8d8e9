package resources

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/schuko"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// CacheKey derives a file name stem from a source locator. Equal sources
// map to equal keys across runs, so downloads and builds may be re-used.
func CacheKey(source string) string {
	h := blake3.Sum256([]byte(source))
	return hex.EncodeToString(h[:16])
}

// CachedFilePath returns the path a downloaded URL is stored at, i.e.
// "<cachedir>/<key>.<ext>", with the extension taken from the URL path.
// Compressed sources keep their inner extension, e.g. ".ttf.xz".
func CachedFilePath(cachedir, rawurl string) string {
	p := rawurl
	if u, err := url.Parse(rawurl); err == nil {
		p = u.Path
	}
	ext := path.Ext(p)
	if ext == ".xz" {
		ext = path.Ext(strings.TrimSuffix(p, ext)) + ext
	}
	return filepath.Join(cachedir, CacheKey(rawurl)+ext)
}

// DownloadCachedFile will download a url to a local file (usually located in the
// user's cache directory). The file is written under a temporary name and
// renamed when complete, so an interrupted download never leaves a truncated
// file at dest.
//
// A response with a non-success status is reported as an error with code
// core.ECONNECTION.
func DownloadCachedFile(ctx context.Context, client *http.Client, dest string, url string) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "invalid download URL: %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return core.WrapError(err, core.ECONNECTION, "failed to download: %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tracer().Errorf("download of %s not OK: %v", url, resp.Status)
		return core.Error(core.ECONNECTION, "failed to download: %s (%s)", url, resp.Status)
	}
	return writeAtomic(dest, resp.Body)
}

func writeAtomic(dest string, r io.Reader) error {
	dir := filepath.Dir(dest)
	out, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot create file in %s", dir)
	}
	tmp := out.Name()
	_, err = io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, dest)
	}
	if err != nil {
		os.Remove(tmp)
		return core.WrapError(err, core.ECONNECTION, "cannot store %s", dest)
	}
	return nil
}

// Decompress unpacks an xz-compressed file next to itself, dropping the
// ".xz" suffix, and returns the path of the unpacked file. An already
// unpacked file is re-used.
func Decompress(xzpath string) (string, error) {
	target := strings.TrimSuffix(xzpath, ".xz")
	if target == xzpath {
		return xzpath, nil
	}
	if exists(target) {
		return target, nil
	}
	in, err := os.Open(xzpath)
	if err != nil {
		return "", core.WrapError(err, core.EMISSING, "cannot open %s", xzpath)
	}
	defer in.Close()
	r, err := xz.NewReader(in)
	if err != nil {
		return "", core.WrapError(err, core.EINVALID, "not an xz file: %s", xzpath)
	}
	if err = writeAtomic(target, r); err != nil {
		return "", core.WrapError(err, core.EINVALID, "cannot decompress %s", xzpath)
	}
	tracer().Debugf("decompressed %s", target)
	return target, nil
}

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `cache-dir` of the
// configuration, or else from `os.UserCacheDir()` plus an application
// specific key, taken as `app-key` from the configuration.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(conf schuko.Configuration, subfolders ...string) (string, error) {
	cachedir := conf.GetString("cache-dir")
	if cachedir == "" {
		appkey := conf.GetString("app-key")
		tracer().Debugf("config[%s] = %s", "app-key", appkey)
		if appkey == "" {
			tracer().Errorf("application key is not set")
			appkey = "fontstacks"
		}
		base, err := os.UserCacheDir()
		if err != nil {
			return "", core.WrapError(err, core.EMISSING, "no user cache directory")
		}
		cachedir = filepath.Join(base, appkey)
	}
	cachedir = filepath.Join(cachedir, filepath.Join(subfolders...))
	tracer().Infof("caching in %s", cachedir)
	if err := os.MkdirAll(cachedir, 0755); err != nil {
		return "", core.WrapError(err, core.EINVALID, "cache directory cannot be created: %s", cachedir)
	}
	return cachedir, nil
}

func exists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Size() > 0
}
