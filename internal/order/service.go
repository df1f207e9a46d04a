package order

import (
	"context"
)

// Service answers the account pages' order queries. Ownership is the account
// id recorded at checkout, never the email on the order.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) ListForCustomer(ctx context.Context, userID int) ([]Order, error) {
	if userID <= 0 {
		return []Order{}, nil
	}
	return s.repo.ListByUserID(ctx, userID)
}

// GetForCustomer hides orders that belong to someone else behind ErrNotFound.
func (s *Service) GetForCustomer(ctx context.Context, number string, userID int) (Order, error) {
	if userID <= 0 {
		return Order{}, ErrNotFound
	}
	ord, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}
