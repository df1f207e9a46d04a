package product

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

// ListFeatured returns the products flagged for the home page hero.
func (s *Service) ListFeatured(ctx context.Context) ([]Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0)
	for _, p := range all {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out, nil
}

// Lookup resolves a single catalog entry; it satisfies the catalog dependency
// of pricing and order reconciliation.
func (s *Service) Lookup(ctx context.Context, id string) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

// LookupMany resolves a batch of ids with one repository read. Unknown ids are
// absent from the map.
func (s *Service) LookupMany(ctx context.Context, ids []string) (map[string]Product, error) {
	products, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}
