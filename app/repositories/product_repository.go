package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilrana/saman/app/models"
	"github.com/nikhilrana/saman/pkg/cache"
	"github.com/nikhilrana/saman/pkg/metrics"
)

const (
	productListKey = "products:all"
	productListTTL = 5 * time.Minute
)

// ProductRepository is the store handle for products. The full list is
// served read-through from the cache and invalidated on every write.
type ProductRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewProductRepository(db *gorm.DB, store *cache.Store) *ProductRepository {
	if store == nil {
		store = cache.Nop()
	}
	return &ProductRepository{db: db, cache: store}
}

// All returns every product with its owner preloaded.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	if r.cache.Get(productListKey, &products) {
		return products, nil
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	if err := r.db.Preload("User").Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}

	_ = r.cache.Set(productListKey, products, productListTTL)
	return products, nil
}

// Find looks a product up by primary key, owner preloaded.
func (r *ProductRepository) Find(id uint) (models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var product models.Product
	err := r.db.Preload("User").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("products: find %d: %w", id, err)
	}
	return product, nil
}

// Create inserts a new product. The store assigns id and created_time.
func (r *ProductRepository) Create(product *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if err := r.db.Create(product).Error; err != nil {
		return translate("products: create", err)
	}

	_ = r.cache.Del(productListKey)
	return r.reload(product)
}

// Update applies a partial change set to an existing product. Only the
// columns present in changes are written; created_time is immutable.
func (r *ProductRepository) Update(product *models.Product, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	delete(changes, "created_time")

	defer metrics.ObserveDBQuery("update", time.Now())

	if err := r.db.Model(product).Updates(changes).Error; err != nil {
		return translate("products: update", err)
	}

	_ = r.cache.Del(productListKey)
	return r.reload(product)
}

// Delete removes a product by id. Returns ErrNotFound when no row matched.
func (r *ProductRepository) Delete(id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("products: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	_ = r.cache.Del(productListKey)
	return nil
}

// reload refreshes the record including the owner association, so the
// derived email field is available right after a write.
func (r *ProductRepository) reload(product *models.Product) error {
	product.User = nil
	if err := r.db.Preload("User").First(product, product.ID).Error; err != nil {
		return fmt.Errorf("products: reload %d: %w", product.ID, err)
	}
	return nil
}

// translate maps gorm's translated driver errors onto the sentinel errors.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
