package loyalty

import (
	"context"
	"log/slog"

	"darmenu/internal/core"
)

var (
	ErrInsufficientPoints = core.NewError(core.ErrConflict, "insufficient loyalty points")
	ErrInvalidAmount      = core.NewError(core.ErrInvalid, "amount must be greater than 0")
	ErrInvalidKind        = core.NewError(core.ErrInvalid, "unknown loyalty transaction kind")
	ErrUserRequired       = core.NewError(core.ErrUnauthorized, "sign in to use loyalty points")
)

const defaultHistoryLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Balance(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrUserRequired
	}
	return s.repo.Balance(ctx, userID)
}

func (s *Service) Award(ctx context.Context, userID string, amount int, reason string, metadata map[string]any) (int, error) {
	return s.apply(ctx, Transaction{UserID: userID, Kind: KindAward, Amount: amount, Reason: reason, Metadata: metadata})
}

func (s *Service) Redeem(ctx context.Context, userID string, amount int, reason string, metadata map[string]any) (int, error) {
	return s.apply(ctx, Transaction{UserID: userID, Kind: KindRedeem, Amount: amount, Reason: reason, Metadata: metadata})
}

func (s *Service) apply(ctx context.Context, txn Transaction) (int, error) {
	if txn.UserID == "" {
		return 0, ErrUserRequired
	}
	if txn.Amount <= 0 {
		return 0, ErrInvalidAmount
	}

	balance, err := s.repo.Apply(ctx, txn)
	if err != nil {
		return 0, err
	}
	slog.Info("[LOYALTY] points "+txn.Kind, "user_id", txn.UserID, "amount", txn.Amount, "balance", balance)
	return balance, nil
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}
	return s.repo.History(ctx, userID, limit)
}
