package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// EventID records the payment event identifier under the key "event_id".
func EventID(id string) slog.Attr {
	return slog.String("event_id", id)
}

// EventType records the payment event type under the key "event_type".
func EventType(t string) slog.Attr {
	return slog.String("event_type", t)
}

// Email records a subscriber email under the key "email".
func Email(email string) slog.Attr {
	return slog.String("email", email)
}

// PlanName records a plan name under the key "plan".
func PlanName(plan string) slog.Attr {
	return slog.String("plan", plan)
}

// Token records a price or product token under the key "token".
func Token(token string) slog.Attr {
	return slog.String("token", token)
}

// Reason records a skip reason under the key "reason".
func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}

// OverrideID records an admin override audit identifier under the key
// "override_id".
func OverrideID(id string) slog.Attr {
	return slog.String("override_id", id)
}
