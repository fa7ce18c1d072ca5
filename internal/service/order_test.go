package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/orderdesk/intake-server-go/internal/config"
	apperrors "github.com/orderdesk/intake-server-go/internal/errors"
	"github.com/orderdesk/intake-server-go/internal/model"
	"github.com/orderdesk/intake-server-go/internal/repository"
)

// Mock order repository
type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) FindPage(ctx context.Context, filter model.OrderFilter, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *mockOrderRepo) Count(ctx context.Context, filter model.OrderFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *mockOrderRepo) FindBatch(ctx context.Context, filter model.OrderFilter, cursor *repository.OrderCursor, limit int) ([]model.Order, error) {
	args := m.Called(ctx, filter, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *mockOrderRepo) Create(ctx context.Context, params model.CreateOrderParams) (*model.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) Update(ctx context.Context, id string, params model.UpdateOrderParams) (*model.Order, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *mockOrderRepo) DistinctCountries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func makeOrders(n int, startID int) []model.Order {
	orders := make([]model.Order, n)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range orders {
		orders[i] = model.Order{
			ID:        fmt.Sprintf("order-%d", startID+i),
			Country:   "美国",
			ASIN:      "B0TEST0001",
			CreatedAt: base.Add(-time.Duration(startID+i) * time.Minute),
		}
	}
	return orders
}

// Encoder that records every batch it receives.
type captureEncoder struct {
	batches [][]model.Order
	err     error
}

func (c *captureEncoder) WriteOrders(orders []model.Order) error {
	if c.err != nil {
		return c.err
	}
	c.batches = append(c.batches, orders)
	return nil
}

func TestOrderServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("returns page with totals", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		orders := makeOrders(3, 1)
		filter := model.OrderFilter{Country: "美国"}
		repo.On("Count", ctx, filter).Return(45, nil)
		repo.On("FindPage", ctx, filter, 20, 20).Return(orders, nil)

		page, err := svc.List(ctx, filter, 2, 20)

		assert.NoError(t, err)
		assert.Equal(t, orders, page.Orders)
		assert.Equal(t, 45, page.TotalCount)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 2, page.CurrentPage)
		repo.AssertExpectations(t)
	})

	t.Run("page past the end yields empty slice, not nil", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		repo.On("Count", ctx, model.OrderFilter{}).Return(5, nil)
		repo.On("FindPage", ctx, model.OrderFilter{}, 20, 180).Return(nil, nil)

		page, err := svc.List(ctx, model.OrderFilter{}, 10, 20)

		assert.NoError(t, err)
		assert.NotNil(t, page.Orders)
		assert.Empty(t, page.Orders)
		assert.Equal(t, 5, page.TotalCount)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("zero matches yields zero pages", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		repo.On("Count", ctx, model.OrderFilter{}).Return(0, nil)
		repo.On("FindPage", ctx, model.OrderFilter{}, 20, 0).Return(nil, nil)

		page, err := svc.List(ctx, model.OrderFilter{}, 1, 20)

		assert.NoError(t, err)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		repo.On("Count", ctx, model.OrderFilter{}).Return(0, errors.New("connection refused"))

		_, err := svc.List(ctx, model.OrderFilter{}, 1, 20)

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
	})
}

func TestOrderServiceExport(t *testing.T) {
	ctx := context.Background()

	t.Run("single short batch stops without a second query", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		orders := makeOrders(3, 1)
		repo.On("FindBatch", ctx, model.OrderFilter{}, (*repository.OrderCursor)(nil), config.ExportBatchSize).
			Return(orders, nil).Once()

		enc := &captureEncoder{}
		total, err := svc.Export(ctx, model.OrderFilter{}, enc)

		assert.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, enc.batches, 1)
		repo.AssertExpectations(t)
	})

	t.Run("full batch advances the cursor", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		first := makeOrders(config.ExportBatchSize, 1)
		second := makeOrders(2, config.ExportBatchSize+1)
		last := first[len(first)-1]
		cursor := &repository.OrderCursor{CreatedAt: last.CreatedAt, ID: last.ID}

		repo.On("FindBatch", ctx, model.OrderFilter{}, (*repository.OrderCursor)(nil), config.ExportBatchSize).
			Return(first, nil).Once()
		repo.On("FindBatch", ctx, model.OrderFilter{}, cursor, config.ExportBatchSize).
			Return(second, nil).Once()

		enc := &captureEncoder{}
		total, err := svc.Export(ctx, model.OrderFilter{}, enc)

		assert.NoError(t, err)
		assert.Equal(t, config.ExportBatchSize+2, total)
		assert.Len(t, enc.batches, 2)
		repo.AssertExpectations(t)
	})

	t.Run("no matches exports zero rows", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		repo.On("FindBatch", ctx, model.OrderFilter{}, (*repository.OrderCursor)(nil), config.ExportBatchSize).
			Return(nil, nil).Once()

		enc := &captureEncoder{}
		total, err := svc.Export(ctx, model.OrderFilter{}, enc)

		assert.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, enc.batches)
	})

	t.Run("encoder errors abort the export", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		repo.On("FindBatch", ctx, model.OrderFilter{}, (*repository.OrderCursor)(nil), config.ExportBatchSize).
			Return(makeOrders(config.ExportBatchSize, 1), nil).Once()

		enc := &captureEncoder{err: errors.New("broken pipe")}
		_, err := svc.Export(ctx, model.OrderFilter{}, enc)

		assert.Error(t, err)
		repo.AssertExpectations(t)
	})
}

func TestOrderServiceStats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates counts", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		repo.On("Count", ctx, model.OrderFilter{}).Return(120, nil)
		repo.On("CountSince", ctx, mock.AnythingOfType("time.Time")).Return(7, nil).Once()
		repo.On("CountSince", ctx, mock.AnythingOfType("time.Time")).Return(31, nil).Once()
		repo.On("DistinctCountries", ctx).Return([]string{"美国", "日本", "德国"}, nil)

		stats, err := svc.Stats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 120, stats.TotalOrders)
		assert.Equal(t, 7, stats.Today)
		assert.Equal(t, 31, stats.Week)
		assert.Equal(t, 3, stats.Countries)
	})
}

func TestOrderServiceCountries(t *testing.T) {
	ctx := context.Background()

	t.Run("nil becomes empty slice", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		repo.On("DistinctCountries", ctx).Return(nil, nil)

		countries, err := svc.Countries(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, countries)
		assert.Empty(t, countries)
	})
}

func TestOrderServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("reports whether the order existed", func(t *testing.T) {
		repo := new(mockOrderRepo)
		svc := NewOrderService(repo)

		repo.On("Delete", ctx, "some-id").Return(false, nil)

		existed, err := svc.Delete(ctx, "some-id")

		assert.NoError(t, err)
		assert.False(t, existed)
	})
}
