package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
	}
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, name, accountType, currency string, cardNumber *string) (*account.Account, error) {
	acc, err := account.NewAccount(name, accountType, currency, cardNumber)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetAccount retrieves an account by its ID, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context, activeOnly bool) ([]*account.Account, error) {
	return s.accountRepo.List(ctx, activeOnly)
}

func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, id uuid.UUID, patch account.Patch) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := acc.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *AccountServiceImpl) DeactivateAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	inactive := false
	return s.UpdateAccount(ctx, id, account.Patch{IsActive: &inactive})
}

func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.accountRepo.Delete(ctx, id)
}
