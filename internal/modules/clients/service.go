package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"imagestyle/internal/domain"
	"imagestyle/internal/pkg/validator"
)

var ErrValidation = errors.New("validation error")

type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	List(ctx context.Context) ([]domain.Client, error)
}

type Service struct {
	clients ClientRepository
}

func NewService(clients ClientRepository) *Service {
	return &Service{clients: clients}
}

// Create stores a client. Names are trimmed and must not be blank.
func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*domain.Client, error) {
	c := &domain.Client{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
	}
	if errs := validator.Validate(c); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, errs)
	}

	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}
