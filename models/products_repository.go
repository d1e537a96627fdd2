package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// GetAllProducts returns every product with its category and tags loaded.
func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Order("products.id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

// CreateProduct inserts the product row and attaches tagIDs in one transaction.
// Tags and Category on the struct are ignored; only the id columns are written.
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "Tags").Create(product).Error; err != nil {
			return fmt.Errorf("inserting product: %w", err)
		}
		return attachTags(tx, product.ID, tagIDs)
	})
}

// UpdateProduct writes the change set onto the existing row and replaces its tags.
// A nil tagIDs leaves the associations untouched.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *Product, changes ProductChangeSet, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(product).Omit("Category", "Tags").Updates(changes.toMap())
		if res.Error != nil {
			return fmt.Errorf("updating product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		if tagIDs == nil {
			return nil
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&ProductTag{}).Error; err != nil {
			return fmt.Errorf("clearing tags: %w", err)
		}
		return attachTags(tx, product.ID, tagIDs)
	})
}

// DeleteProduct removes the product together with its tag associations.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&ProductTag{}).Error; err != nil {
			return fmt.Errorf("clearing tags: %w", err)
		}
		res := tx.Delete(&Product{}, product.ID)
		if res.Error != nil {
			return fmt.Errorf("deleting product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func attachTags(tx *gorm.DB, productID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]ProductTag, 0, len(tagIDs))
	seen := make(map[uint]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, ProductTag{ProductID: productID, TagID: id})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("attaching tags: %w", err)
	}
	return nil
}
