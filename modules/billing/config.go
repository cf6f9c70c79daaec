package billing

// Config holds the HTTP-facing settings of the billing module: checkout
// redirect targets and admin credentials.
type Config struct {
	CheckoutSuccessURL  string `env:"CHECKOUT_SUCCESS_URL,required"`
	CheckoutCancelURL   string `env:"CHECKOUT_CANCEL_URL,required"`
	CheckoutFallbackURL string `env:"CHECKOUT_FALLBACK_URL,required"`

	// AdminUser and AdminPasswordBcrypt gate the manual override endpoint.
	// Leaving either empty disables the endpoint entirely.
	AdminUser           string `env:"ADMIN_USER"`
	AdminPasswordBcrypt string `env:"ADMIN_PASSWORD_BCRYPT"`
}
