package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/planbridge/planbridge/pkg/billing"
	"github.com/planbridge/planbridge/pkg/logger"
	"github.com/planbridge/planbridge/pkg/reconcile"
	"github.com/planbridge/planbridge/pkg/subscriber"
)

// maxWebhookBody bounds the request body read before verification.
const maxWebhookBody = 64 << 10

const signatureHeader = "Stripe-Signature"

// handleWebhook authenticates, reconciles and acknowledges one delivery.
// Verification runs on the raw bytes; only failures return non-2xx so the
// processor retries them.
func (s *Service) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	if err := s.verifier.Verify(payload, r.Header.Get(signatureHeader)); err != nil {
		s.log.WarnContext(ctx, "rejected webhook", logger.Error(err))
		respondError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	evt, err := reconcile.ParseEvent(payload)
	if err != nil {
		s.log.WarnContext(ctx, "malformed webhook payload", logger.Error(err))
		respondError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	if s.guard.Seen(ctx, evt.ID) {
		s.log.InfoContext(ctx, "duplicate delivery", logger.EventID(evt.ID), logger.EventType(evt.Type))
		respondJSON(w, http.StatusOK, ackResponse{Received: true, Skipped: "duplicate delivery"})
		return
	}

	decision := s.engine.Reconcile(ctx, evt)

	// The guard is marked only after a terminal outcome: a crash anywhere
	// before leaves no marker, so the sender's retry is reprocessed and the
	// entitlement cannot be dropped. A duplicate race merely replays an
	// idempotent write.
	switch decision.Kind {
	case reconcile.DecisionApply:
		if err := s.writer.SetPlan(ctx, decision.Email, decision.Plan, decision.UsageLimit); err != nil {
			if errors.Is(err, subscriber.ErrSubscriberNotFound) {
				s.log.WarnContext(ctx, "skipping event",
					logger.EventID(evt.ID), logger.Email(decision.Email),
					logger.Reason(reconcile.SkipUnknownSubscriber))
				respondJSON(w, http.StatusOK, ackResponse{Received: true, Skipped: reconcile.SkipUnknownSubscriber})
				return
			}
			s.log.ErrorContext(ctx, "subscriber write failed",
				logger.EventID(evt.ID), logger.Email(decision.Email), logger.Error(err))
			respondError(w, http.StatusInternalServerError, "subscriber write failed")
			return
		}
		s.guard.Mark(ctx, evt.ID)
		s.log.InfoContext(ctx, "applied plan change",
			logger.EventID(evt.ID), logger.Email(decision.Email), logger.PlanName(string(decision.Plan)))
		respondJSON(w, http.StatusOK, ackResponse{Received: true})

	case reconcile.DecisionSkip:
		s.guard.Mark(ctx, evt.ID)
		respondJSON(w, http.StatusOK, ackResponse{Received: true, Skipped: decision.Reason})

	case reconcile.DecisionFail:
		s.log.ErrorContext(ctx, "reconciliation failed",
			logger.EventID(evt.ID), logger.EventType(evt.Type), logger.Error(decision.Err))
		status := http.StatusInternalServerError
		if errors.Is(decision.Err, billing.ErrUpstream) {
			status = http.StatusBadGateway
		}
		respondError(w, status, "reconciliation failed")
	}
}
