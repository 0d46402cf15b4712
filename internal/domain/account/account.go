package account

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName             = errors.New("account name cannot be empty")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
)

// Account represents a user-visible money container such as a wallet or a bank card.
// Balances are never stored here; they are always derived from the transaction log.
type Account struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"` // Free-form tag, e.g. "cash" or "card"
	Currency   string    `json:"currency"`
	IsActive   bool      `json:"is_active"`
	CardNumber *string   `json:"card_number,omitempty"` // Masked card reference
	CreatedAt  time.Time `json:"created_at"`
}

// NewAccount creates a new active account. The currency is fixed for the account's lifetime.
func NewAccount(name, accountType, currency string, cardNumber *string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	code, err := NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:         uuid.New(),
		Name:       name,
		Type:       strings.TrimSpace(accountType),
		Currency:   code,
		IsActive:   true,
		CardNumber: MaskCardNumber(cardNumber),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Patch carries the mutable account fields; nil means "leave unchanged"
type Patch struct {
	Name       *string
	Type       *string
	CardNumber *string
	IsActive   *bool
}

// Apply updates the account in place. Currency is deliberately absent from Patch.
func (a *Account) Apply(p Patch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrEmptyName
		}
		a.Name = name
	}
	if p.Type != nil {
		a.Type = strings.TrimSpace(*p.Type)
	}
	if p.CardNumber != nil {
		a.CardNumber = MaskCardNumber(p.CardNumber)
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	return nil
}

// Deactivate soft-deletes the account
func (a *Account) Deactivate() {
	a.IsActive = false
}

// NormalizeCurrency upper-cases and validates an ISO-style 3-letter currency code
func NormalizeCurrency(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return "", ErrInvalidCurrencyFormat
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrencyFormat
		}
	}
	return code, nil
}

// MaskCardNumber keeps only the last four digits of a card number.
// Values that are already masked or too short are returned trimmed.
func MaskCardNumber(cardNumber *string) *string {
	if cardNumber == nil {
		return nil
	}
	raw := strings.ReplaceAll(strings.TrimSpace(*cardNumber), " ", "")
	if raw == "" {
		return nil
	}
	if len(raw) <= 4 || strings.Contains(raw, "*") {
		return &raw
	}
	masked := "**** " + raw[len(raw)-4:]
	return &masked
}
