// Package reconcile turns asynchronous payment events into idempotent
// subscriber-record decisions. Each recognized event kind is projected into
// one normalized shape, resolved to an (email, plan, usage limit) tuple and
// classified as apply, skip or fail.
package reconcile

import (
	"bytes"
	"encoding/json"

	"github.com/planbridge/planbridge/pkg/billing"
)

// Recognized event kinds. Everything else is acknowledged and skipped.
const (
	TypeCheckoutSessionCompleted = "checkout.session.completed"
	TypeSubscriptionCreated      = "customer.subscription.created"
	TypeSubscriptionUpdated      = "customer.subscription.updated"
	TypeInvoicePaymentSucceeded  = "invoice.payment_succeeded"
)

// Event is the typed webhook envelope. Data.Object keeps the raw bytes of
// the embedded processor object; the shape depends on the event kind.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object json.RawMessage `json:"object"`
}

// ParseEvent deserializes a webhook payload into an Event.
func ParseEvent(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// Actionable reports whether the event kind carries plan information this
// pipeline acts on.
func Actionable(eventType string) bool {
	switch eventType {
	case TypeCheckoutSessionCompleted,
		TypeSubscriptionCreated,
		TypeSubscriptionUpdated,
		TypeInvoicePaymentSucceeded:
		return true
	}
	return false
}

// Normalized is the common internal projection of every recognized event
// kind. All fields are optional; resolution decides what can be done with
// whatever survived the projection.
type Normalized struct {
	Email           string            // customer-contact email embedded in the primary object
	LegacyEmail     string            // alternate email field some event shapes carry
	CustomerRef     string            // processor customer identifier, for a fallback lookup
	SubscriptionRef string            // processor subscription identifier, for a plan fetch
	LineItem        *billing.LineItem // embedded line item, when the event carries one
}

// Normalize projects the event's embedded object into the common shape.
// The second return value is false for unrecognized event kinds.
func Normalize(evt Event) (Normalized, bool) {
	switch evt.Type {
	case TypeCheckoutSessionCompleted:
		return normalizeCheckoutSession(evt.Data.Object), true
	case TypeSubscriptionCreated, TypeSubscriptionUpdated:
		return normalizeSubscription(evt.Data.Object), true
	case TypeInvoicePaymentSucceeded:
		return normalizeInvoice(evt.Data.Object), true
	}
	return Normalized{}, false
}

// ref unmarshals processor references that arrive either as a bare
// identifier string or as an embedded object with an "id" field.
type ref string

func (r *ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ref(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = ref(obj.ID)
	return nil
}

type checkoutSessionObject struct {
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	CustomerEmail string `json:"customer_email"`
	Customer      ref    `json:"customer"`
	Subscription  ref    `json:"subscription"`
}

func normalizeCheckoutSession(raw json.RawMessage) Normalized {
	var obj checkoutSessionObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Normalized{}
	}

	n := Normalized{
		LegacyEmail:     obj.CustomerEmail,
		CustomerRef:     string(obj.Customer),
		SubscriptionRef: string(obj.Subscription),
	}
	if obj.CustomerDetails != nil {
		n.Email = obj.CustomerDetails.Email
	}
	return n
}

type lineItemObject struct {
	Price *struct {
		ID      string `json:"id"`
		Product ref    `json:"product"`
	} `json:"price"`
}

type subscriptionObject struct {
	ID       string `json:"id"`
	Customer ref    `json:"customer"`
	Items    struct {
		Data []lineItemObject `json:"data"`
	} `json:"items"`
}

func normalizeSubscription(raw json.RawMessage) Normalized {
	var obj subscriptionObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Normalized{}
	}

	n := Normalized{
		CustomerRef:     string(obj.Customer),
		SubscriptionRef: obj.ID,
	}
	n.LineItem = firstLineItem(obj.Items.Data)
	return n
}

type invoiceObject struct {
	CustomerEmail string `json:"customer_email"`
	Customer      ref    `json:"customer"`
	Subscription  ref    `json:"subscription"`
	Lines         struct {
		Data []lineItemObject `json:"data"`
	} `json:"lines"`
}

func normalizeInvoice(raw json.RawMessage) Normalized {
	var obj invoiceObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Normalized{}
	}

	n := Normalized{
		LegacyEmail:     obj.CustomerEmail,
		CustomerRef:     string(obj.Customer),
		SubscriptionRef: string(obj.Subscription),
	}
	n.LineItem = firstLineItem(obj.Lines.Data)
	return n
}

// firstLineItem treats the first line item as authoritative; multi-item
// subscriptions are a documented limitation.
func firstLineItem(items []lineItemObject) *billing.LineItem {
	for _, item := range items {
		if item.Price == nil || item.Price.ID == "" {
			continue
		}
		return &billing.LineItem{
			PriceToken:   item.Price.ID,
			ProductToken: string(item.Price.Product),
		}
	}
	return nil
}
