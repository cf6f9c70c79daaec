package plan

import "fmt"

// Entry binds one processor token (a price or product identifier) to a plan
// and its usage limit. A deployment may key its mapping by price tokens,
// product tokens, or a mix of both.
type Entry struct {
	Token      string
	Plan       Plan
	UsageLimit string
}

// Config supplies the processor tokens for each plan from the environment.
type Config struct {
	BasicToken string `env:"PLAN_BASIC_TOKEN,required"`
	ProToken   string `env:"PLAN_PRO_TOKEN,required"`
	EliteToken string `env:"PLAN_ELITE_TOKEN,required"`
}

// Mapping is the read-only token-to-plan table. It is constructed once at
// process start and passed into the reconciliation engine; business logic
// never reads the process environment directly.
type Mapping struct {
	byToken map[string]Entry
}

// NewMapping builds an immutable mapping from the given entries. It enforces
// totality: exactly one entry per plan, no duplicate tokens, no unknown
// plans. A broken table is a boot error, never a per-event surprise.
func NewMapping(entries ...Entry) (*Mapping, error) {
	byToken := make(map[string]Entry, len(entries))
	perPlan := make(map[Plan]int, len(entries))

	for _, e := range entries {
		if e.Token == "" {
			return nil, fmt.Errorf("%w: empty token for plan %q", ErrInvalidMapping, e.Plan)
		}
		if !e.Plan.Valid() {
			return nil, fmt.Errorf("%w: unknown plan %q", ErrInvalidMapping, e.Plan)
		}
		if e.UsageLimit == "" {
			e.UsageLimit = e.Plan.UsageLimit()
		}
		if _, dup := byToken[e.Token]; dup {
			return nil, fmt.Errorf("%w: duplicate token %q", ErrInvalidMapping, e.Token)
		}
		byToken[e.Token] = e
		perPlan[e.Plan]++
	}

	for _, p := range All() {
		if perPlan[p] != 1 {
			return nil, fmt.Errorf("%w: plan %q has %d entries, want exactly 1", ErrInvalidMapping, p, perPlan[p])
		}
	}

	return &Mapping{byToken: byToken}, nil
}

// NewMappingFromConfig builds the mapping from the configured plan tokens
// using the canonical usage limits.
func NewMappingFromConfig(cfg Config) (*Mapping, error) {
	return NewMapping(
		Entry{Token: cfg.BasicToken, Plan: Basic},
		Entry{Token: cfg.ProToken, Plan: Pro},
		Entry{Token: cfg.EliteToken, Plan: Elite},
	)
}

// Lookup returns the entry for a single token.
func (m *Mapping) Lookup(token string) (Entry, bool) {
	if token == "" {
		return Entry{}, false
	}
	e, ok := m.byToken[token]
	return e, ok
}

// Resolve matches the price token first and falls back to the product
// token. When both tokens match different entries the price match wins:
// a price is more specific than its parent product.
func (m *Mapping) Resolve(priceToken, productToken string) (Entry, bool) {
	if e, ok := m.Lookup(priceToken); ok {
		return e, true
	}
	return m.Lookup(productToken)
}

// TokenFor returns the configured token for a plan, used by the checkout
// redirect to build the processor session.
func (m *Mapping) TokenFor(p Plan) (string, bool) {
	for token, e := range m.byToken {
		if e.Plan == p {
			return token, true
		}
	}
	return "", false
}
