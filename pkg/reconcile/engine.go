package reconcile

import (
	"context"
	"log/slog"

	"github.com/planbridge/planbridge/pkg/billing"
	"github.com/planbridge/planbridge/pkg/logger"
	"github.com/planbridge/planbridge/pkg/plan"
)

// DecisionKind classifies the outcome of reconciling one event.
type DecisionKind string

const (
	// DecisionApply means an (email, plan, limit) tuple was resolved and
	// must be written to the subscriber store.
	DecisionApply DecisionKind = "apply"
	// DecisionSkip means the event carried nothing actionable. The delivery
	// is still acknowledged so the processor does not retry it.
	DecisionSkip DecisionKind = "skip"
	// DecisionFail means a transient dependency error prevented resolution;
	// the delivery should be retried.
	DecisionFail DecisionKind = "fail"
)

// Decision is the engine's verdict for one event.
type Decision struct {
	Kind       DecisionKind
	Email      string
	Plan       plan.Plan
	UsageLimit string
	Reason     string // set for skips
	Err        error  // set for failures
}

func applied(email string, entry plan.Entry) Decision {
	return Decision{
		Kind:       DecisionApply,
		Email:      email,
		Plan:       entry.Plan,
		UsageLimit: entry.UsageLimit,
	}
}

// Skipped builds a skip decision. Exported so the transport layer can map
// store-level misses onto the same taxonomy.
func Skipped(reason string) Decision {
	return Decision{Kind: DecisionSkip, Reason: reason}
}

// Failed builds a failure decision.
func Failed(err error) Decision {
	return Decision{Kind: DecisionFail, Err: err}
}

// Engine runs the reconciliation pipeline: normalize, resolve identity,
// resolve plan tokens, map to a plan. It decides; it does not write.
type Engine struct {
	identity *IdentityResolver
	plans    *PlanResolver
	mapping  *plan.Mapping
	log      *slog.Logger
}

// NewEngine assembles the pipeline around one processor client.
func NewEngine(processor billing.ProcessorClient, mapping *plan.Mapping, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		identity: NewIdentityResolver(processor),
		plans:    NewPlanResolver(processor),
		mapping:  mapping,
		log:      log,
	}
}

// Reconcile classifies one event. Replaying the same event yields the same
// decision, so deliveries can be retried safely.
func (e *Engine) Reconcile(ctx context.Context, evt Event) Decision {
	if !Actionable(evt.Type) {
		e.log.InfoContext(ctx, "skipping event",
			logger.EventID(evt.ID), logger.EventType(evt.Type), logger.Reason(SkipIgnoredEventType))
		return Skipped(SkipIgnoredEventType)
	}
	n, _ := Normalize(evt)

	email, err := e.identity.Resolve(ctx, n)
	if err != nil {
		return Failed(err)
	}
	if email == "" {
		e.log.WarnContext(ctx, "skipping event",
			logger.EventID(evt.ID), logger.EventType(evt.Type), logger.Reason(SkipNoEmail))
		return Skipped(SkipNoEmail)
	}

	priceToken, productToken, err := e.plans.Resolve(ctx, n)
	if err != nil {
		return Failed(err)
	}
	if priceToken == "" && productToken == "" {
		e.log.WarnContext(ctx, "skipping event",
			logger.EventID(evt.ID), logger.EventType(evt.Type), logger.Reason(SkipNoPlanToken))
		return Skipped(SkipNoPlanToken)
	}

	entry, ok := e.mapping.Resolve(priceToken, productToken)
	if !ok {
		token := priceToken
		if token == "" {
			token = productToken
		}
		e.log.WarnContext(ctx, "skipping event",
			logger.EventID(evt.ID), logger.EventType(evt.Type),
			logger.Reason(SkipUnmappedToken), logger.Token(token))
		return Skipped(SkipUnmappedToken)
	}

	e.log.InfoContext(ctx, "resolved plan change",
		logger.EventID(evt.ID), logger.EventType(evt.Type),
		logger.Email(email), logger.PlanName(string(entry.Plan)))
	return applied(email, entry)
}
