package repository

import (
	"context"
	"strings"

	"trading-journal/internal/entity"

	"gorm.io/gorm"
)

// Filter restricts a listing to trades matching the given predicates. Direction
// is an exact match, Pair a case-insensitive substring match.
type Filter struct {
	Pair      string
	Direction string
}

// TradeRepository defines the interface for trade data operations.
type TradeRepository interface {
	Insert(ctx context.Context, trade *entity.Trade) error
	FindByID(ctx context.Context, id string) (*entity.Trade, error)
	FindMany(ctx context.Context, filter Filter, skip, limit int, sortBy, sortDir string) ([]entity.Trade, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// NewTradeRepository creates a new GORM-based trade repository.
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

type tradeRepository struct {
	db *gorm.DB
}

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[string]string{
	"date":          "date",
	"pair":          "pair",
	"result_amount": "result_amount",
	"created_at":    "created_at",
}

// Insert creates a new trade row.
func (r *tradeRepository) Insert(ctx context.Context, trade *entity.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

// FindByID retrieves a trade by its ID.
func (r *tradeRepository) FindByID(ctx context.Context, id string) (*entity.Trade, error) {
	var trade entity.Trade
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&trade).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

// FindMany retrieves trades matching the filter, paginated and ordered.
func (r *tradeRepository) FindMany(ctx context.Context, filter Filter, skip, limit int, sortBy, sortDir string) ([]entity.Trade, error) {
	query := r.db.WithContext(ctx).Model(&entity.Trade{})

	if filter.Direction != "" {
		query = query.Where("direction = ?", filter.Direction)
	}
	if filter.Pair != "" {
		query = query.Where("LOWER(pair) LIKE ?", "%"+strings.ToLower(filter.Pair)+"%")
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "date"
	}
	direction := "desc"
	if strings.EqualFold(sortDir, "asc") {
		direction = "asc"
	}

	var trades []entity.Trade
	err := query.
		Order(column + " " + direction).
		Offset(skip).
		Limit(limit).
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// UpdateFields applies a sparse column update and reports how many rows changed.
func (r *tradeRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Trade{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// DeleteByID removes a trade row and reports how many rows were deleted.
func (r *tradeRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Trade{})
	return result.RowsAffected, result.Error
}
