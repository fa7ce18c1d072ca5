package service

import (
	"context"
	"time"

	"github.com/orderdesk/intake-server-go/internal/config"
	apperrors "github.com/orderdesk/intake-server-go/internal/errors"
	"github.com/orderdesk/intake-server-go/internal/export"
	"github.com/orderdesk/intake-server-go/internal/model"
	"github.com/orderdesk/intake-server-go/internal/repository"
)

type OrderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// List returns one page of matching orders, newest first, plus the exact
// total under the same filter. A page past the end yields an empty page,
// not an error.
func (s *OrderService) List(ctx context.Context, filter model.OrderFilter, page, limit int) (*model.OrderPage, error) {
	count, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	orders, err := s.orderRepo.FindPage(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if orders == nil {
		orders = []model.Order{}
	}

	return &model.OrderPage{
		Orders:      orders,
		TotalCount:  count,
		TotalPages:  (count + limit - 1) / limit,
		CurrentPage: page,
	}, nil
}

func (s *OrderService) Create(ctx context.Context, params model.CreateOrderParams) (*model.Order, error) {
	order, err := s.orderRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return order, nil
}

// Update applies a partial update; returns nil when the order does not exist.
func (s *OrderService) Update(ctx context.Context, id string, params model.UpdateOrderParams) (*model.Order, error) {
	order, err := s.orderRepo.Update(ctx, id, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return order, nil
}

// Delete physically removes an order; returns false when it did not exist.
func (s *OrderService) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return false, apperrors.Database(err)
	}
	return existed, nil
}

// Export streams every order matching the filter into the encoder in
// keyset batches, never materializing the full result set. It returns the
// number of exported rows.
func (s *OrderService) Export(ctx context.Context, filter model.OrderFilter, enc export.Encoder) (int, error) {
	total := 0
	var cursor *repository.OrderCursor

	for {
		batch, err := s.orderRepo.FindBatch(ctx, filter, cursor, config.ExportBatchSize)
		if err != nil {
			return total, apperrors.Database(err)
		}
		if len(batch) == 0 {
			return total, nil
		}

		if err := enc.WriteOrders(batch); err != nil {
			return total, err
		}
		total += len(batch)

		last := batch[len(batch)-1]
		cursor = &repository.OrderCursor{CreatedAt: last.CreatedAt, ID: last.ID}

		if len(batch) < config.ExportBatchSize {
			return total, nil
		}
	}
}

func (s *OrderService) Stats(ctx context.Context) (*model.OrderStats, error) {
	total, err := s.orderRepo.Count(ctx, model.OrderFilter{})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	today, err := s.orderRepo.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	week, err := s.orderRepo.CountSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.Database(err)
	}

	countries, err := s.orderRepo.DistinctCountries(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &model.OrderStats{
		TotalOrders: total,
		Today:       today,
		Week:        week,
		Countries:   len(countries),
	}, nil
}

func (s *OrderService) Countries(ctx context.Context) ([]string, error) {
	countries, err := s.orderRepo.DistinctCountries(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if countries == nil {
		countries = []string{}
	}
	return countries, nil
}
