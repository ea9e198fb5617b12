package match

import "github.com/FlashGalatine/xivdyetools-core-sub002/dye"

// Option customises a matcher query.
type Option func(*config)

type config struct {
	predicates []func(dye.Dye) bool
}

func applyOptions(opts ...Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// exclude folds every filter into a single predicate, or nil when no filter
// is set so the index skips predicate calls entirely.
func (c config) exclude() func(dye.Dye) bool {
	if len(c.predicates) == 0 {
		return nil
	}
	preds := c.predicates
	return func(d dye.Dye) bool {
		for _, p := range preds {
			if p(d) {
				return true
			}
		}
		return false
	}
}

// WithExclude drops dyes matching the predicate from results.
func WithExclude(fn func(dye.Dye) bool) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.predicates = append(cfg.predicates, fn)
		}
	}
}

// WithoutItems drops the given item IDs from results.
func WithoutItems(ids ...int) Option {
	banned := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		banned[id] = struct{}{}
	}
	return func(cfg *config) {
		cfg.predicates = append(cfg.predicates, func(d dye.Dye) bool {
			_, ok := banned[d.ItemID]
			return ok
		})
	}
}

// WithCategory restricts results to a single catalog category.
func WithCategory(category string) Option {
	return func(cfg *config) {
		cfg.predicates = append(cfg.predicates, func(d dye.Dye) bool {
			return d.Category != category
		})
	}
}

func withPicked(picked map[int]struct{}) Option {
	return func(cfg *config) {
		cfg.predicates = append(cfg.predicates, func(d dye.Dye) bool {
			_, ok := picked[d.ItemID]
			return ok
		})
	}
}
