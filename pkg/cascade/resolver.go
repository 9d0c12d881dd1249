package cascade

import (
	"bytes"
	"context"
	"sync"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/logging"
	"github.com/arthur-debert/textilize/pkg/rules"
)

// Resolver produces the effective rule set for a stage at a location
type Resolver interface {
	Resolve(ctx context.Context, stage rules.Stage, location string) (*rules.RuleSet, error)
}

// DefaultsFunc returns the built-in rule document for a stage, nil for none
type DefaultsFunc func(stage rules.Stage) []byte

// NoDefaults ships no built-in rules for any stage
func NoDefaults(rules.Stage) []byte { return nil }

// Options configures a CascadingResolver
type Options struct {
	// IgnoreSystemRules drops every OriginSystem source, built-in defaults included
	IgnoreSystemRules bool

	// Defaults supplies the built-in rules; nil uses the embedded rules.DefaultContent
	Defaults DefaultsFunc
}

// CascadingResolver merges rule sources from general to specific
type CascadingResolver struct {
	lookup Lookup
	opts   Options
}

// New creates a resolver walking lookup
func New(lookup Lookup, opts Options) *CascadingResolver {
	if opts.Defaults == nil {
		opts.Defaults = rules.DefaultContent
	}
	return &CascadingResolver{lookup: lookup, opts: opts}
}

// Sources returns the sources for stage at location ordered from most
// general to most specific, after System filtering
func (r *CascadingResolver) Sources(ctx context.Context, stage rules.Stage, location string) ([]Source, error) {
	var chain []Source
	seen := make(map[string]bool)

	for loc := location; loc != "" && !seen[loc]; {
		seen[loc] = true

		src, parent, err := r.lookup.Lookup(ctx, loc, stage)
		if err != nil {
			return nil, wrapStage(err, stage)
		}
		if src != nil {
			chain = append(chain, *src)
		}
		loc = parent
	}

	sources := make([]Source, 0, len(chain)+1)
	if content := r.opts.Defaults(stage); len(content) > 0 {
		sources = append(sources, Source{
			Path:    rules.DefaultSourceName(stage),
			Origin:  rules.OriginSystem,
			Content: content,
		})
	}
	for i := len(chain) - 1; i >= 0; i-- {
		sources = append(sources, chain[i])
	}

	if !r.opts.IgnoreSystemRules {
		return sources, nil
	}
	filtered := sources[:0]
	for _, src := range sources {
		if src.Origin != rules.OriginSystem {
			filtered = append(filtered, src)
		}
	}
	return filtered, nil
}

// Resolve parses every source and inserts its rules in cascade order
func (r *CascadingResolver) Resolve(ctx context.Context, stage rules.Stage, location string) (*rules.RuleSet, error) {
	logger := logging.GetLogger("cascade").With().
		Str("stage", string(stage)).
		Str("location", location).
		Logger()
	defer logging.LogOperationStart(logger, "resolve")()

	sources, err := r.Sources(ctx, stage, location)
	if err != nil {
		return nil, err
	}

	rs := rules.NewRuleSet(stage)
	for _, src := range sources {
		parsed, err := rules.ParseDocument(src.Path, bytes.NewReader(src.Content), src.Origin)
		if err != nil {
			return nil, wrapStage(err, stage)
		}
		replaced := rs.InsertAll(parsed)
		logger.Debug().
			Str("source", src.Path).
			Str("origin", src.Origin.String()).
			Int("rules", len(parsed)).
			Int("overrides", replaced).
			Msg("Applied rule source")
	}

	logger.Debug().Int("sources", len(sources)).Int("rules", rs.Len()).Msg("Resolved rule set")
	return rs, nil
}

func wrapStage(err error, stage rules.Stage) error {
	if tErr, ok := err.(*errors.TextilizeError); ok {
		return tErr.WithDetail(errors.DetailStage, string(stage))
	}
	return errors.Wrap(err, errors.ErrInternal, "resolving rules").
		WithDetail(errors.DetailStage, string(stage))
}

type cacheKey struct {
	stage    rules.Stage
	location string
}

// CachingResolver memoizes resolved sets for the process lifetime.
// Failed resolutions are not cached.
type CachingResolver struct {
	inner Resolver

	mu   sync.Mutex
	memo map[cacheKey]*rules.RuleSet
}

// NewCaching wraps inner with a memo keyed by stage and location
func NewCaching(inner Resolver) *CachingResolver {
	return &CachingResolver{
		inner: inner,
		memo:  make(map[cacheKey]*rules.RuleSet),
	}
}

func (c *CachingResolver) Resolve(ctx context.Context, stage rules.Stage, location string) (*rules.RuleSet, error) {
	key := cacheKey{stage: stage, location: location}

	c.mu.Lock()
	defer c.mu.Unlock()

	if rs, ok := c.memo[key]; ok {
		return rs, nil
	}
	rs, err := c.inner.Resolve(ctx, stage, location)
	if err != nil {
		return nil, err
	}
	c.memo[key] = rs
	return rs, nil
}
