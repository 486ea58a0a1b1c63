package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Account is a connected provider account. Its credential lives in the
// credential store under CredentialKey, never on the struct itself.
type Account struct {
	ID      uuid.UUID `json:"id"`
	Service Service   `json:"service"`
	Name    string    `json:"name"`
	Enabled bool      `json:"enabled"`
}

// NewAccount creates an enabled account with a fresh id.
func NewAccount(service Service, name string) Account {
	return Account{
		ID:      uuid.New(),
		Service: service,
		Name:    name,
		Enabled: true,
	}
}

// CredentialKey is the credential store key for this account's token.
func (a Account) CredentialKey() string {
	return fmt.Sprintf("deploywatch.token.%s", a.ID)
}
