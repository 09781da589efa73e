package placement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ohsu-comp-bio/accelfit/config"
	"github.com/ohsu-comp-bio/accelfit/logger"
	"github.com/ohsu-comp-bio/accelfit/util"
	"golang.org/x/time/rate"
)

// Client reads provider trees from a placement (inventory) REST service.
type Client struct {
	base    string
	token   string
	version string
	http    *http.Client
	retrier *util.Retrier
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewClient returns a new placement client.
func NewClient(conf config.Placement, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing placement URL: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("placement URL must be absolute: %q", conf.URL)
	}
	if log == nil {
		log = logger.New("placement")
	}

	r := util.NewRetrier()
	r.MaxTries = conf.MaxRetries + 1
	r.ShouldRetry = shouldRetry
	r.Notify = func(err error, d time.Duration) {
		log.Debug("Retrying placement request", "wait", d, err)
	}

	rps := conf.RequestsPerSecond
	if rps <= 0 {
		rps = float64(rate.Inf)
	}

	return &Client{
		base:    strings.TrimRight(u.String(), "/"),
		token:   conf.Token,
		version: conf.APIVersion,
		http:    &http.Client{Timeout: time.Duration(conf.Timeout)},
		retrier: r,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		log:     log,
	}, nil
}

// shouldRetry retries transport failures and temporary HTTP statuses.
func shouldRetry(err error) bool {
	var herr *util.HTTPError
	if errors.As(err, &herr) {
		return herr.Temporary()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

type resourceProvider struct {
	UUID       string `json:"uuid"`
	Name       string `json:"name"`
	ParentUUID string `json:"parent_provider_uuid"`
	RootUUID   string `json:"root_provider_uuid"`
}

type providersResponse struct {
	ResourceProviders []resourceProvider `json:"resource_providers"`
}

type inventoriesResponse struct {
	Inventories map[string]Inventory `json:"inventories"`
}

type traitsResponse struct {
	Traits []string `json:"traits"`
}

type usagesResponse struct {
	Usages map[string]float64 `json:"usages"`
}

// Snapshot returns the provider tree of the named host.
// Returns ErrNoRootProvider when the host has no resource provider.
func (c *Client) Snapshot(ctx context.Context, host string) (*Tree, error) {
	root, err := c.RootProviderID(ctx, host)
	if err != nil {
		return nil, err
	}
	return c.Tree(ctx, root)
}

// RootProviderID resolves the compute host's resource provider uuid by name.
func (c *Client) RootProviderID(ctx context.Context, host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("%w: empty host name", ErrNoRootProvider)
	}
	var resp providersResponse
	err := c.get(ctx, "/resource_providers?name="+url.QueryEscape(host), &resp)
	if err != nil {
		return "", err
	}
	if len(resp.ResourceProviders) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoRootProvider, host)
	}
	return resp.ResourceProviders[0].UUID, nil
}

// Tree fetches every provider in the tree rooted at rootID along with its
// inventories, traits, and (for non-root providers) usages.
func (c *Client) Tree(ctx context.Context, rootID string) (*Tree, error) {
	var list providersResponse
	err := c.get(ctx, "/resource_providers?in_tree="+url.QueryEscape(rootID), &list)
	if err != nil {
		return nil, err
	}
	if len(list.ResourceProviders) == 0 {
		return nil, fmt.Errorf("%w: tree %s is empty", ErrNoRootProvider, rootID)
	}

	providers := make([]*Provider, 0, len(list.ResourceProviders))
	for _, rp := range list.ResourceProviders {
		p, err := c.provider(ctx, rp, rp.UUID == rootID)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return NewTree(rootID, providers)
}

func (c *Client) provider(ctx context.Context, rp resourceProvider, isRoot bool) (*Provider, error) {
	path := "/resource_providers/" + url.PathEscape(rp.UUID)

	var inv inventoriesResponse
	if err := c.get(ctx, path+"/inventories", &inv); err != nil {
		return nil, err
	}
	var traits traitsResponse
	if err := c.get(ctx, path+"/traits", &traits); err != nil {
		return nil, err
	}

	p := &Provider{
		ID:          rp.UUID,
		ParentID:    rp.ParentUUID,
		Inventories: inv.Inventories,
		Traits:      NewTraits(traits.Traits...),
	}

	// The root is never scored, so its usages are not needed.
	if !isRoot {
		var usages usagesResponse
		if err := c.get(ctx, path+"/usages", &usages); err != nil {
			return nil, err
		}
		p.Usages = usages.Usages
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var body []byte
	err := c.retrier.Retry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.version != "" {
			req.Header.Set("OpenStack-API-Version", c.version)
		}
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		start := time.Now()
		b, err := util.CheckHTTPResponse(c.http.Do(req))
		c.log.Debug("placement request", "path", path, "elapsed", time.Since(start), "ok", err == nil)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding GET %s: %v", path, err)
	}
	return nil
}
