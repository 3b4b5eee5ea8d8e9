package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/npillmayer/fontstacks/core"
)

// GoogleFontInfo describes a font family of the Google webfont service.
type GoogleFontInfo struct {
	Family   string            `json:"family"`
	Version  string            `json:"version"`
	Variants []string          `json:"variants"`
	Subsets  []string          `json:"subsets"`
	Files    map[string]string `json:"files"`
}

type googleFontsList struct {
	Items []GoogleFontInfo `json:"items"`
}

// DefaultGoogleFontsAPI is the endpoint of the Google Fonts developer API.
const DefaultGoogleFontsAPI = `https://www.googleapis.com/webfonts/v1/webfonts`

// googleDirectory loads the list of Google webfonts on first use. The
// outcome of a load is kept, unless the load was cut short by its context.
type googleDirectory struct {
	api    string
	apikey string
	client *http.Client
	mu     sync.Mutex
	loaded bool
	list   googleFontsList
	err    error
}

func (gd *googleDirectory) load(ctx context.Context) error {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	if gd.loaded {
		return gd.err
	}
	err := gd.fetchList(ctx)
	if err != nil && ctx.Err() != nil {
		tracer().Debugf("Google fonts list not loaded: %v", ctx.Err())
		return err
	}
	gd.loaded, gd.err = true, err
	return err
}

func (gd *googleDirectory) fetchList(ctx context.Context) error {
	apikey := gd.apikey
	if apikey == "" {
		apikey = os.Getenv("GOOGLE_API_KEY")
	}
	if apikey == "" {
		tracer().Errorf("Google API key not set")
		return core.Error(core.EMISSING,
			`Google Fonts API-key must be set in global configuration or as GOOGLE_API_KEY in environment;
      please refer to https://developers.google.com/fonts/docs/developer_api`)
	}
	values := url.Values{
		"sort": []string{"alpha"},
		"key":  []string{apikey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gd.api+"?"+values.Encode(), nil)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "invalid Google Fonts API endpoint %s", gd.api)
	}
	resp, err := gd.client.Do(req)
	if err != nil {
		tracer().Errorf("Google Fonts API request not OK: %s", err.Error())
		return core.WrapError(err, core.ECONNECTION,
			"could not get fonts-directory from Google font service")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		tracer().Errorf("Google Fonts API request not OK: %v", resp.Status)
		return core.Error(core.ECONNECTION,
			"could not get fonts-directory from Google font service: %v", resp.Status)
	}
	var list googleFontsList
	if err = json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return core.WrapError(err, core.EINVALID,
			"could not decode fonts-list from Google font service")
	}
	gd.list = list
	tracer().Infof("%d fonts in Google webfont list", len(gd.list.Items))
	return nil
}

// find returns the download URL of a variant of a Google webfont family.
// An empty variant selects "regular".
func (gd *googleDirectory) find(ctx context.Context, family, variant string) (string, error) {
	if err := gd.load(ctx); err != nil {
		return "", err
	}
	if variant == "" {
		variant = "regular"
	}
	for _, finfo := range gd.list.Items {
		if !strings.EqualFold(finfo.Family, family) {
			continue
		}
		if u, ok := finfo.Files[strings.ToLower(variant)]; ok {
			tracer().Debugf("Google font %s/%s at %s", finfo.Family, variant, u)
			return u, nil
		}
		return "", core.Error(core.EMISSING, "Google font %s has no variant %q (has %v)",
			finfo.Family, variant, finfo.Variants)
	}
	return "", core.Error(core.EMISSING, "font not found in Google font service: %s", family)
}
