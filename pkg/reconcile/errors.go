package reconcile

// Skip reasons reported back in the acknowledgement and warn-logged. A skip
// means the event was understood but carried nothing actionable; it is never
// surfaced as a delivery failure.
const (
	SkipIgnoredEventType  = "ignored event type"
	SkipNoEmail           = "no resolvable customer email"
	SkipNoPlanToken       = "no resolvable plan token"
	SkipUnmappedToken     = "plan token not in mapping table"
	SkipUnknownSubscriber = "no existing subscriber record"
)
