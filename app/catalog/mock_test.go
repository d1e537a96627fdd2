package catalog

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mytheresa/catalog-admin/app/forms"
	"github.com/mytheresa/catalog-admin/models"
)

// --- Mock Repos ---

// MockProductRepo keeps products in memory and records write calls.
type MockProductRepo struct {
	Products []models.Product
	Err      error
	WriteErr error

	lastCalledID uint
	created      *models.Product
	createdTags  []uint
	updates      *models.ProductChangeSet
	updatedTags  []uint
	deleted      *models.Product
}

func (m *MockProductRepo) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Products, nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	m.lastCalledID = id
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockProductRepo) CreateProduct(ctx context.Context, product *models.Product, tagIDs []uint) error {
	m.created = product
	m.createdTags = tagIDs
	if m.WriteErr != nil {
		return m.WriteErr
	}
	product.ID = uint(len(m.Products) + 100)
	stored := *product
	for _, id := range tagIDs {
		stored.Tags = append(stored.Tags, models.Tag{ID: id})
	}
	m.Products = append(m.Products, stored)
	return nil
}

func (m *MockProductRepo) UpdateProduct(ctx context.Context, product *models.Product, changes models.ProductChangeSet, tagIDs []uint) error {
	m.updates = &changes
	m.updatedTags = tagIDs
	return m.WriteErr
}

func (m *MockProductRepo) DeleteProduct(ctx context.Context, product *models.Product) error {
	m.deleted = product
	if m.WriteErr != nil {
		return m.WriteErr
	}
	kept := m.Products[:0]
	for _, p := range m.Products {
		if p.ID != product.ID {
			kept = append(kept, p)
		}
	}
	m.Products = kept
	return nil
}

type MockReferenceRepo struct {
	Categories []models.Category
	Tags       []models.Tag
	Err        error
}

func (m *MockReferenceRepo) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

func (m *MockReferenceRepo) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tags, nil
}

// --- Helpers ---

func newReferenceRepo() *MockReferenceRepo {
	return &MockReferenceRepo{
		Categories: []models.Category{
			{ID: 1, Name: "Fruits"},
			{ID: 2, Name: "Vegetables"},
		},
		Tags: []models.Tag{
			{ID: 1, Name: "organic"},
			{ID: 2, Name: "healthy"},
			{ID: 3, Name: "gluten free"},
			{ID: 4, Name: "ethically sourced"},
		},
	}
}

var (
	categoryNames = map[uint]string{1: "Fruits", 2: "Vegetables"}
	tagNames      = map[uint]string{1: "organic", 2: "healthy", 3: "gluten free", 4: "ethically sourced"}
)

func newTestProduct(id uint, name string, cost int64, categoryID uint, tagIDs ...uint) models.Product {
	p := models.Product{
		ID:          id,
		Name:        name,
		Cost:        cost,
		Description: name + " description",
		CategoryID:  categoryID,
		Category:    models.Category{ID: categoryID, Name: categoryNames[categoryID]},
	}
	for _, tid := range tagIDs {
		p.Tags = append(p.Tags, models.Tag{ID: tid, Name: tagNames[tid]})
	}
	return p
}

func newTestHandler(t *testing.T, products *MockProductRepo, refs *MockReferenceRepo) *CatalogHandler {
	t.Helper()
	schema, err := forms.LoadProductSchema()
	require.NoError(t, err)
	return NewCatalogHandler(products, refs, refs, schema)
}

func serve(h *CatalogHandler, method, target string, body url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func validProductValues() url.Values {
	return url.Values{
		"name":        {"Kale"},
		"cost":        {"350"},
		"description": {"Curly kale"},
		"category_id": {"2"},
		"tags":        {"1,2"},
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
