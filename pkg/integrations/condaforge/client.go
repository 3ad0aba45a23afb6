package condaforge

import (
	"context"
	"net/http"
	"strings"

	"github.com/matzehuels/recipegen/pkg/buildinfo"
	"github.com/matzehuels/recipegen/pkg/errors"
	"github.com/matzehuels/recipegen/pkg/integrations"
)

// DefaultURLTemplate is where conda-forge keeps each feedstock's recipe.
const DefaultURLTemplate = "https://raw.githubusercontent.com/conda-forge/{name}-feedstock/master/recipe/meta.yaml"

// Client downloads feedstock meta.yaml files.
type Client struct {
	*integrations.Client
	urlTemplate string
	normalize   bool
}

// NewClient creates a feedstock client. An empty urlTemplate selects
// [DefaultURLTemplate]. With normalize set, names are lowercased and
// underscores replaced before they are put into the URL.
func NewClient(httpClient *http.Client, urlTemplate string, normalize bool) *Client {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	return &Client{
		Client:      integrations.NewClient(httpClient, headers),
		urlTemplate: urlTemplate,
		normalize:   normalize,
	}
}

// URL returns the meta.yaml location for name.
func (c *Client) URL(name string) string {
	if c.normalize {
		name = integrations.NormalizePkgName(name)
	}
	return strings.ReplaceAll(c.urlTemplate, "{name}", name)
}

// FetchMeta returns the raw meta.yaml text for name.
//
// Returns an [errors.ErrCodeFetch] error wrapping [integrations.ErrNotFound]
// when the feedstock has no recipe, or [integrations.ErrNetwork] for any
// other failure.
func (c *Client) FetchMeta(ctx context.Context, name string) (string, error) {
	url := c.URL(name)
	text, err := c.GetText(ctx, url)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFetch, err, "error %s", url)
	}
	return text, nil
}
