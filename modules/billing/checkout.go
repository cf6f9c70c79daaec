package billing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planbridge/planbridge/pkg/billing"
	"github.com/planbridge/planbridge/pkg/logger"
	"github.com/planbridge/planbridge/pkg/plan"
)

// handleCheckout creates a hosted checkout session for the named plan and
// redirects the buyer to it. An unknown plan or a session-creation failure
// sends the buyer to the configured fallback page instead of an error body;
// the payer never sees a raw error.
func (s *Service) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := plan.Parse(chi.URLParam(r, "plan"))
	if !ok {
		http.Redirect(w, r, s.cfg.CheckoutFallbackURL, http.StatusSeeOther)
		return
	}

	token, ok := s.mapping.TokenFor(p)
	if !ok {
		http.Redirect(w, r, s.cfg.CheckoutFallbackURL, http.StatusSeeOther)
		return
	}

	sess, err := s.processor.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		PriceToken: token,
		SuccessURL: s.cfg.CheckoutSuccessURL,
		CancelURL:  s.cfg.CheckoutCancelURL,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "checkout session failed",
			logger.PlanName(string(p)), logger.Error(err))
		http.Redirect(w, r, s.cfg.CheckoutFallbackURL, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
}
