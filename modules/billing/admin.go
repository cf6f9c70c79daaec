package billing

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/planbridge/planbridge/pkg/logger"
	"github.com/planbridge/planbridge/pkg/plan"
	"github.com/planbridge/planbridge/pkg/subscriber"
)

// basicAuth guards the admin routes with a single operator credential.
// The password is compared against a bcrypt hash so the plaintext never
// lives in configuration.
func (s *Service) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.AdminUser)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordBcrypt), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type adminSetPlanRequest struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

// handleAdminSetPlan is the manual override: it writes a plan entitlement
// through the same writer the webhook path uses, so normalization and
// create-if-missing behavior stay identical.
func (s *Service) handleAdminSetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req adminSetPlanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	p, ok := plan.Parse(req.Plan)
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "unknown plan")
		return
	}
	email := subscriber.NormalizeEmail(req.Email)
	if email == "" {
		respondError(w, http.StatusUnprocessableEntity, "email is required")
		return
	}

	// Every manual override carries an audit identifier so a log line can
	// be matched to the response the operator received.
	overrideID := uuid.NewString()

	if err := s.writer.SetPlan(ctx, email, p, p.UsageLimit()); err != nil {
		if errors.Is(err, subscriber.ErrSubscriberNotFound) {
			respondError(w, http.StatusNotFound, "subscriber not found")
			return
		}
		s.log.ErrorContext(ctx, "admin plan override failed",
			logger.OverrideID(overrideID), logger.Email(email),
			logger.PlanName(string(p)), logger.Error(err))
		respondError(w, http.StatusInternalServerError, "subscriber write failed")
		return
	}

	s.log.InfoContext(ctx, "admin plan override applied",
		logger.OverrideID(overrideID), logger.Email(email), logger.PlanName(string(p)))
	respondJSON(w, http.StatusOK, map[string]string{
		"override_id": overrideID,
		"email":       email,
		"plan":        string(p),
		"limit":       p.UsageLimit(),
	})
}
