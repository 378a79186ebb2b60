package repository

import (
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound signals that no row matched the lookup. Callers treat it as
	// a normal outcome, not a persistence failure.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidPage signals a page request with page < 0 or size <= 0.
	ErrInvalidPage = errors.New("invalid page request")
)

// sortColumns whitelists the columns a caller may sort by. Free-form column
// names would flow into the ORDER BY clause unescaped.
var sortColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"price":       "price",
	"stock":       "stock",
}

// DefaultSortKey is used when the caller does not name a sort key.
const DefaultSortKey = "name"

// orderClause maps a sort key to its ORDER BY clause. Unknown keys fall back
// to the default. The id tiebreak keeps the order total, so pagination never
// shows a row twice or skips one when the primary key values tie.
func orderClause(sortKey string) string {
	col, ok := sortColumns[sortKey]
	if !ok {
		col = sortColumns[DefaultSortKey]
	}
	return col + " ASC, id ASC"
}

// ProductRepository is the persistence contract for catalog products. Every
// read returns products with their presentation already loaded in the same
// fetch, never one lookup per row.
type ProductRepository interface {
	FindAllSorted(sortKey string) ([]model.Product, error)
	FindPage(page, size int, sortKey string) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	Save(p *model.Product) error
	Delete(p *model.Product) error
}

type gormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a gorm-backed ProductRepository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

// FindAllSorted returns every product ascending by the given sort key, with
// presentations preloaded in one batched query.
func (r *gormProductRepository) FindAllSorted(sortKey string) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	var products []model.Product
	result := r.db.Preload("Presentation").Order(orderClause(sortKey)).Find(&products)
	if result.Error != nil {
		return nil, fmt.Errorf("list products: %w", result.Error)
	}
	return products, nil
}

// FindPage returns one zero-indexed page of products plus the total row count
// for the same scope.
func (r *gormProductRepository) FindPage(page, size int, sortKey string) ([]model.Product, int64, error) {
	if page < 0 || size <= 0 {
		return nil, 0, fmt.Errorf("%w: page=%d size=%d", ErrInvalidPage, page, size)
	}

	defer prometheus.TrackDBOperation("product_page")(time.Now())

	var total int64
	if result := r.db.Model(&model.Product{}).Count(&total); result.Error != nil {
		return nil, 0, fmt.Errorf("count products: %w", result.Error)
	}

	var products []model.Product
	result := r.db.Preload("Presentation").
		Order(orderClause(sortKey)).
		Offset(page * size).
		Limit(size).
		Find(&products)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("page products: %w", result.Error)
	}
	return products, total, nil
}

// FindByID fetches one product with its presentation. Returns ErrNotFound
// when the row does not exist.
func (r *gormProductRepository) FindByID(id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_get")(time.Now())

	var product model.Product
	result := r.db.Preload("Presentation").First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, result.Error)
	}
	return &product, nil
}

// Save upserts: a zero id inserts with a fresh key, a set id replaces all
// mutable fields of the existing row or inserts at that id when no row
// exists. The write runs in one transaction so a partial update is never
// observable.
func (r *gormProductRepository) Save(p *model.Product) error {
	defer prometheus.TrackDBOperation("product_save")(time.Now())

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(p).Error
	})
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// Delete removes the row. Not idempotent: callers fetch first to distinguish
// "not found" from "deleted".
func (r *gormProductRepository) Delete(p *model.Product) error {
	defer prometheus.TrackDBOperation("product_delete")(time.Now())

	if result := r.db.Delete(p); result.Error != nil {
		return fmt.Errorf("delete product %d: %w", p.ID, result.Error)
	}
	return nil
}
