package invidious

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"sync"

	"github.com/handiism/tubeaudio/internal/catalog"
	thttp "github.com/handiism/tubeaudio/internal/http"
	"github.com/handiism/tubeaudio/internal/invidious/dto"
	"github.com/handiism/tubeaudio/internal/model"
	"github.com/handiism/tubeaudio/internal/monitoring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAllInstancesFailed is returned by Search when no instance returned
	// a non-empty first page.
	ErrAllInstancesFailed = errors.New("no invidious instance answered")

	// ErrNoInstances is returned by Search when the instance list is empty
	// and discovery is off or found nothing.
	ErrNoInstances = errors.New("no invidious instances configured")

	errEmptyPage = errors.New("empty result page")

	// errWinnerFound stops the remaining probes of a search.
	errWinnerFound = errors.New("winner found")
)

// Config configures a Backend.
type Config struct {
	// Instances are base URLs or bare host names.
	Instances []string

	// Discover fetches the instance list from DirectoryURL when Instances
	// is empty.
	Discover bool

	// DirectoryURL overrides the instance directory location.
	DirectoryURL string

	// ParallelProbes bounds how many instances are probed at once.
	ParallelProbes int
}

// Backend implements catalog.Backend over a set of Invidious instances.
//
// Search shuffles the instances and probes them in groups of
// ParallelProbes. Within a group the first instance in shuffled order with a
// non-empty first page wins; later groups are only tried when a whole group
// failed.
//
// Example:
//
//	backend := invidious.NewBackend(client, invidious.Config{
//	    Instances:      []string{"https://yewtu.be", "https://inv.nadeko.net"},
//	    ParallelProbes: 3,
//	}, logger)
//	session := catalog.NewSession(backend)
type Backend struct {
	client *thttp.Client
	config Config
	logger *zap.Logger

	mu         sync.Mutex
	discovered []string
	shuffle    func([]string)
}

// NewBackend creates a Backend. A nil logger disables logging.
func NewBackend(client *thttp.Client, config Config, logger *zap.Logger) *Backend {
	if config.ParallelProbes < 1 {
		config.ParallelProbes = 1
	}
	if config.DirectoryURL == "" {
		config.DirectoryURL = DirectoryURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		client: client,
		config: config,
		logger: logger,
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
}

// Instances returns the instance base URLs Search chooses from, running
// discovery once if needed.
func (b *Backend) Instances(ctx context.Context) ([]string, error) {
	if len(b.config.Instances) > 0 {
		out := make([]string, len(b.config.Instances))
		for i, d := range b.config.Instances {
			out[i] = NormalizeDomain(d)
		}
		return out, nil
	}
	if !b.config.Discover {
		return nil, ErrNoInstances
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.discovered == nil {
		domains, err := Discover(ctx, b.client, b.config.DirectoryURL)
		if err != nil {
			return nil, err
		}
		b.logger.Info("discovered invidious instances", zap.Int("count", len(domains)))
		b.discovered = domains
	}
	if len(b.discovered) == 0 {
		return nil, ErrNoInstances
	}
	return append([]string(nil), b.discovered...), nil
}

// Search implements catalog.Backend.
//
// Instances are probed in shuffled order, at most ParallelProbes at a time.
// The first instance in that order answering with a non-empty page wins.
// Once every instance before it has failed, probes still in flight are
// cancelled and no further instance is tried.
func (b *Backend) Search(ctx context.Context, keyword string) (catalog.Handle, []model.Entry, error) {
	domains, err := b.Instances(ctx)
	if err != nil {
		return nil, nil, err
	}
	b.shuffle(domains)

	if inst, items, ok := b.probe(ctx, domains, keyword); ok {
		return inst, items, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return nil, nil, fmt.Errorf("%w (tried %d)", ErrAllInstancesFailed, len(domains))
}

type probeResult struct {
	done  bool
	items []model.Entry
	err   error
}

func (b *Backend) probe(ctx context.Context, domains []string, keyword string) (*Instance, []model.Entry, bool) {
	var (
		mu      sync.Mutex
		results = make([]probeResult, len(domains))
	)

	// winnerKnown reports whether results settle the in-order winner.
	// Callers hold mu.
	winnerKnown := func() bool {
		for _, r := range results {
			if !r.done {
				return false
			}
			if r.err == nil {
				return true
			}
		}
		return false
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.ParallelProbes)
	for i, domain := range domains {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				mu.Lock()
				results[i] = probeResult{done: true, err: err}
				mu.Unlock()
				return nil
			}

			items, err := b.instance(domain).QueryPage(gctx, keyword, 1)
			if err == nil && len(items) == 0 {
				err = errEmptyPage
			}
			if gctx.Err() == nil {
				monitoring.RecordInstanceProbe(err)
			}

			mu.Lock()
			defer mu.Unlock()
			results[i] = probeResult{done: true, items: items, err: err}
			if winnerKnown() {
				return errWinnerFound
			}
			return nil
		})
	}
	g.Wait()

	for i, r := range results {
		if !r.done {
			break
		}
		if r.err == nil {
			return b.instance(domains[i]), r.items, true
		}
		b.logger.Debug("instance probe failed",
			zap.String("domain", domains[i]),
			zap.Error(r.err))
	}
	return nil, nil, false
}

func (b *Backend) instance(domain string) *Instance {
	return &Instance{domain: domain, client: b.client}
}

// Instance is a selected Invidious instance. It implements catalog.Handle.
type Instance struct {
	domain string
	client *thttp.Client
}

// NewInstance returns a handle on a single instance without probing it.
func NewInstance(client *thttp.Client, domain string) *Instance {
	return &Instance{domain: NormalizeDomain(domain), client: client}
}

// Domain returns the instance base URL.
func (i *Instance) Domain() string {
	return i.domain
}

// SearchURL returns the search endpoint for keyword and page.
func (i *Instance) SearchURL(keyword string, page int) string {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("page", strconv.Itoa(page))
	q.Set("type", dto.TypeVideo)
	return i.domain + "/api/v1/search?" + q.Encode()
}

// QueryPage implements catalog.Handle. Non-video results are dropped.
func (i *Instance) QueryPage(ctx context.Context, keyword string, page int) ([]model.Entry, error) {
	var items []dto.SearchItem
	if err := i.client.GetJSON(ctx, i.SearchURL(keyword, page), &items); err != nil {
		return nil, err
	}
	return dto.ToEntries(items), nil
}
