// Package billing exposes the HTTP surface of the reconciliation service:
// the webhook endpoint, the hosted-checkout redirect and the admin override.
package billing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planbridge/planbridge/pkg/billing"
	"github.com/planbridge/planbridge/pkg/dedup"
	"github.com/planbridge/planbridge/pkg/plan"
	"github.com/planbridge/planbridge/pkg/reconcile"
	"github.com/planbridge/planbridge/pkg/subscriber"
)

// Service wires the reconciliation pipeline to HTTP.
type Service struct {
	cfg       Config
	verifier  billing.SignatureVerifier
	engine    *reconcile.Engine
	writer    *subscriber.Writer
	guard     *dedup.Guard
	processor billing.ProcessorClient
	mapping   *plan.Mapping
	log       *slog.Logger
}

// NewService assembles the billing module. The guard may be nil.
func NewService(
	cfg Config,
	verifier billing.SignatureVerifier,
	engine *reconcile.Engine,
	writer *subscriber.Writer,
	guard *dedup.Guard,
	processor billing.ProcessorClient,
	mapping *plan.Mapping,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		cfg:       cfg,
		verifier:  verifier,
		engine:    engine,
		writer:    writer,
		guard:     guard,
		processor: processor,
		mapping:   mapping,
		log:       log,
	}
}

// Handle returns the module router, mountable under any prefix.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/webhook", s.handleWebhook)
	r.Get("/checkout/{plan}", s.handleCheckout)

	if s.cfg.AdminUser != "" && s.cfg.AdminPasswordBcrypt != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(s.basicAuth)
			admin.Post("/subscribers", s.handleAdminSetPlan)
		})
	}

	return r
}
