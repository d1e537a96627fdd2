package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mytheresa/catalog-admin/app/forms"
	"github.com/mytheresa/catalog-admin/models"
)

// ListPath is where successful writes redirect to.
const ListPath = "/products/"

type ProductStore interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product, tagIDs []uint) error
	UpdateProduct(ctx context.Context, product *models.Product, changes models.ProductChangeSet, tagIDs []uint) error
	DeleteProduct(ctx context.Context, product *models.Product) error
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
}

type TagProvider interface {
	GetAllTags(ctx context.Context) ([]models.Tag, error)
}

type CatalogHandler struct {
	products   ProductStore
	categories CategoryProvider
	tags       TagProvider
	schema     *forms.Schema
	views      views
}

func NewCatalogHandler(products ProductStore, categories CategoryProvider, tags TagProvider, schema *forms.Schema) *CatalogHandler {
	return &CatalogHandler{
		products:   products,
		categories: categories,
		tags:       tags,
		schema:     schema,
		views:      parseViews(),
	}
}

// Routes returns the product admin routes, meant to be mounted under /products.
func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Get("/add-product", h.HandleCreateForm)
	r.Post("/add-product", h.HandleCreate)
	r.Get("/update-product/{productId}", h.HandleUpdateForm)
	r.Post("/update-product/{productId}", h.HandleUpdate)
	r.Get("/delete-product/{productId}", h.HandleDeleteForm)
	r.Post("/delete-product/{productId}", h.HandleDelete)
	return r
}

func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAllProducts(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to get products")
		return
	}
	h.render(w, r, "index", page{Title: "Products", Products: products})
}

func (h *CatalogHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.newForm(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to load form choices")
		return
	}
	h.render(w, r, "create", page{Title: "Add product", Form: form.HTML()})
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	form, err := h.newForm(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to load form choices")
		return
	}

	outcome, err := form.Handle(r)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	if outcome != forms.Valid {
		zerolog.Ctx(r.Context()).Debug().Stringer("outcome", outcome).Interface("errors", form.Errors()).Msg("product form not accepted")
		h.render(w, r, "create", page{Title: "Add product", Form: form.HTML()})
		return
	}

	product := &models.Product{
		Name:        form.Value("name"),
		Cost:        form.Int("cost"),
		Description: form.Value("description"),
		CategoryID:  form.ID("category_id"),
	}
	if err := h.products.CreateProduct(r.Context(), product, form.IDs("tags")); err != nil {
		h.fail(w, r, err, "Failed to create product")
		return
	}
	zerolog.Ctx(r.Context()).Info().Uint("product_id", product.ID).Msg("product created")
	http.Redirect(w, r, ListPath, http.StatusFound)
}

func (h *CatalogHandler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}
	form, err := h.newForm(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to load form choices")
		return
	}

	form.SetValue("name", product.Name)
	form.SetValue("cost", strconv.FormatInt(product.Cost, 10))
	form.SetValue("description", product.Description)
	form.SetValue("category_id", strconv.FormatUint(uint64(product.CategoryID), 10))
	form.SetValue("tags", idStrings(product.TagIDs())...)

	h.render(w, r, "update", page{Title: "Update product", Form: form.HTML(), Product: product})
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}
	form, err := h.newForm(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to load form choices")
		return
	}

	outcome, err := form.Handle(r)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	if outcome != forms.Valid {
		h.render(w, r, "update", page{Title: "Update product", Form: form.HTML(), Product: product})
		return
	}

	changes := models.ProductChangeSet{
		Name:        form.Value("name"),
		Cost:        form.Int("cost"),
		Description: form.Value("description"),
		CategoryID:  form.ID("category_id"),
	}
	if err := h.products.UpdateProduct(r.Context(), product, changes, form.IDs("tags")); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		h.fail(w, r, err, "Failed to update product")
		return
	}
	zerolog.Ctx(r.Context()).Info().Uint("product_id", product.ID).Msg("product updated")
	http.Redirect(w, r, ListPath, http.StatusFound)
}

func (h *CatalogHandler) HandleDeleteForm(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render(w, r, "delete", page{Title: "Delete product", Product: product})
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.products.DeleteProduct(r.Context(), product); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		h.fail(w, r, err, "Failed to delete product")
		return
	}
	zerolog.Ctx(r.Context()).Info().Uint("product_id", product.ID).Msg("product deleted")
	http.Redirect(w, r, "/products", http.StatusFound)
}

// lookup loads the product named by the productId path parameter. It writes
// the error response itself and reports false when the request must stop.
func (h *CatalogHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return nil, false
	}

	product, err := h.products.GetByID(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return nil, false
		}
		h.fail(w, r, err, "Failed to retrieve product")
		return nil, false
	}
	return product, true
}

// newForm fetches categories and tags concurrently and builds a product form with them.
func (h *CatalogHandler) newForm(ctx context.Context) (*forms.Form, error) {
	var (
		categories []models.Category
		tags       []models.Tag
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = h.categories.GetAllCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = h.tags.GetAllTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	categoryChoices := make([]forms.Choice, len(categories))
	for i, c := range categories {
		categoryChoices[i] = forms.Choice{Value: strconv.FormatUint(uint64(c.ID), 10), Label: c.Name}
	}
	tagChoices := make([]forms.Choice, len(tags))
	for i, t := range tags {
		tagChoices[i] = forms.Choice{Value: strconv.FormatUint(uint64(t.ID), 10), Label: t.Name}
	}
	return h.schema.ProductForm(categoryChoices, tagChoices), nil
}

func (h *CatalogHandler) render(w http.ResponseWriter, r *http.Request, view string, data page) {
	if err := h.views.render(w, view, data); err != nil {
		h.fail(w, r, err, "Failed to render page")
	}
}

func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("method", r.Method).Str("url", r.URL.String()).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

func idStrings(ids []uint) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatUint(uint64(id), 10)
	}
	return out
}
