package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/service"
)

// CatalogHandler serves products and categories
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ProductResponse wraps a stored product
type ProductResponse struct {
	Success bool            `json:"success"`
	Product *domain.Product `json:"product"`
}

// SuccessResponse acknowledges a product deletion
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreateCategoryRequest represents category creation request
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct accepts the multipart product form with 2 to 4 images
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}

	req, err := form.newProduct()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), middleware.Actor(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create product")
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{Success: true, Product: product})
}

// UpdateProduct applies the fields present in the form to product `id`
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}

	id := form.value("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	update, err := form.productUpdate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), middleware.Actor(r.Context()), id, update)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{Success: true, Product: product})
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), middleware.Actor(r.Context()), id); err != nil {
		writeServiceError(w, r, err, "Failed to delete product")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Product deleted successfully"})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), middleware.Actor(r.Context()), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Category name is required")
			return
		}
		writeServiceError(w, r, err, "Error creating category")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) readForm(w http.ResponseWriter, r *http.Request) (*productForm, bool) {
	form, err := parseProductForm(w, r)
	switch {
	case errors.Is(err, errFormTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
		return nil, false
	case err != nil:
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return nil, false
	}
	return form, true
}
