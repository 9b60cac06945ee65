package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateCustomer(ctx context.Context, customer *Customer) (*Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	UpdateCustomer(ctx context.Context, customer *Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func normalizeCustomer(customer *Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return errors.New("service: customer name is required")
	}
	if strings.TrimSpace(customer.Address) == "" {
		return errors.New("service: customer address is required")
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return errors.New("service: customer phone is required")
	}
	customer.StateCode = strings.ToUpper(strings.TrimSpace(customer.StateCode))
	if len(customer.StateCode) != 2 {
		return errors.New("service: state code must be two letters")
	}
	if strings.TrimSpace(customer.CustomerType) == "" {
		return errors.New("service: customer type is required")
	}
	if customer.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*customer.Email))
		if email == "" {
			customer.Email = nil
		} else {
			customer.Email = &email
		}
	}
	return nil
}

func (s *service) CreateCustomer(ctx context.Context, customer *Customer) (*Customer, error) {
	if err := normalizeCustomer(customer); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Str("name", customer.Name).Msg("service: failed to create customer")
		return nil, fmt.Errorf("service: failed to create customer: %w", err)
	}
	customer.ID = id

	return customer, nil
}

func (s *service) GetCustomerByID(ctx context.Context, id int64) (*Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("service: failed to get customer by id %d: %w", id, err)
	}
	return customer, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *service) UpdateCustomer(ctx context.Context, customer *Customer) error {
	if err := normalizeCustomer(customer); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		if errors.Is(err, ErrCustomerNotFound) || errors.Is(err, ErrEmailExists) {
			return err
		}
		log.Error().Err(err).Int64("customer_id", customer.ID).Msg("service: failed to update customer")
		return fmt.Errorf("service: failed to update customer %d: %w", customer.ID, err)
	}
	return nil
}

func (s *service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrCustomerNotFound) || errors.Is(err, ErrCustomerHasOrders) {
			return err
		}
		log.Error().Err(err).Int64("customer_id", id).Msg("service: failed to delete customer")
		return fmt.Errorf("service: failed to delete customer %d: %w", id, err)
	}
	return nil
}
