package types

// ClientReferer is the token client kind for referer-bound tokens.
// It is the only client kind the gateway issues by default.
const ClientReferer = "referer"

// DefaultTokenExpirationMinutes is the token lifetime requested when the
// credential does not specify one.
const DefaultTokenExpirationMinutes = 60

// Credential holds the username and password used to exchange for a
// token, plus the token binding parameters. Client and Referer are
// coupled: a referer-bound token requires the referer client kind, so
// SetReferer and SetClient keep the two consistent. Use NewCredential
// rather than constructing the struct directly.
type Credential struct {
	Username          string `validate:"required"`
	Password          string `validate:"required"`
	ExpirationMinutes int    `validate:"gte=0"`
	client            string
	referer           string
}

// NewCredential creates a credential with the default referer client
// kind and token lifetime.
func NewCredential(username, password string) Credential {
	return Credential{
		Username:          username,
		Password:          password,
		ExpirationMinutes: DefaultTokenExpirationMinutes,
		client:            ClientReferer,
	}
}

// Client returns the token client kind, empty when unbound.
func (c Credential) Client() string { return c.client }

// Referer returns the referer URL the token will be bound to.
func (c Credential) Referer() string { return c.referer }

// SetReferer binds the token to a referer URL. Setting a referer forces
// the client kind to "referer".
func (c *Credential) SetReferer(referer string) {
	c.referer = referer
	if referer != "" {
		c.client = ClientReferer
	}
}

// SetClient sets the token client kind. Clearing the client kind also
// clears the referer, since a referer is meaningless without it.
func (c *Credential) SetClient(client string) {
	c.client = client
	if client == "" {
		c.referer = ""
	}
}
