package reconcile_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/planbridge/planbridge/pkg/billing"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) GetCustomer(ctx context.Context, id string) (*billing.Customer, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*billing.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) GetSubscription(ctx context.Context, id string) (*billing.Subscription, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*billing.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if s := args.Get(0); s != nil {
		return s.(*billing.CheckoutSession), args.Error(1)
	}
	return nil, args.Error(1)
}
