package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"storefront-admin/internal/domain"
)

const (
	// maxUploadBytes bounds a whole product form, four images included.
	maxUploadBytes = 32 << 20
	maxFormMemory  = 8 << 20
)

var errFormTooLarge = errors.New("form too large")

// productForm wraps a parsed multipart product form.
type productForm struct {
	values map[string][]string
	files  []*multipart.FileHeader
}

func parseProductForm(w http.ResponseWriter, r *http.Request) (*productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errFormTooLarge
		}
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	return &productForm{
		values: r.MultipartForm.Value,
		files:  r.MultipartForm.File["images"],
	}, nil
}

// get returns the first value and whether the field was sent at all.
func (f *productForm) get(key string) (string, bool) {
	vs, ok := f.values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (f *productForm) value(key string) string {
	v, _ := f.get(key)
	return strings.TrimSpace(v)
}

// all returns every non-blank value of a repeated field.
func (f *productForm) all(key string) []string {
	out := make([]string, 0, len(f.values[key]))
	for _, v := range f.values[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// list splits a single comma-separated field.
func (f *productForm) list(key string) ([]string, bool) {
	v, ok := f.get(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// float parses an optional numeric field. Blank counts as zero.
func (f *productForm) float(key string) (float64, bool, error) {
	v, ok := f.get(key)
	if !ok {
		return 0, false, nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, true, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be a number", key)
	}
	return n, true, nil
}

func (f *productForm) int(key string) (int, bool, error) {
	n, ok, err := f.float(key)
	if err != nil || !ok {
		return 0, ok, err
	}
	if n != float64(int(n)) {
		return 0, true, fmt.Errorf("%s must be a whole number", key)
	}
	return int(n), true, nil
}

// images reads every uploaded file into memory.
func (f *productForm) images() ([]domain.ImageUpload, error) {
	images := make([]domain.ImageUpload, 0, len(f.files))
	for _, fh := range f.files {
		img, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func readImage(fh *multipart.FileHeader) (domain.ImageUpload, error) {
	file, err := fh.Open()
	if err != nil {
		return domain.ImageUpload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.ImageUpload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return domain.ImageUpload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// newProduct builds a create request. Tags, colors and sizes are repeated fields.
func (f *productForm) newProduct() (*domain.NewProduct, error) {
	price, _, err := f.float("price")
	if err != nil {
		return nil, err
	}
	discount, _, err := f.float("discountPercentage")
	if err != nil {
		return nil, err
	}
	inventory, _, err := f.int("inventory")
	if err != nil {
		return nil, err
	}
	images, err := f.images()
	if err != nil {
		return nil, err
	}

	return &domain.NewProduct{
		ProductFields: domain.ProductFields{
			Name:               f.value("productName"),
			Description:        f.value("description"),
			Price:              price,
			CategoryID:         f.value("category"),
			Tags:               f.all("tags"),
			DiscountPercentage: discount,
			Colors:             f.all("colors"),
			Sizes:              f.all("sizes"),
			Inventory:          inventory,
			Material:           f.value("material"),
			Dimensions:         f.value("dimensions"),
			Weight:             f.value("weight"),
		},
		Images: images,
	}, nil
}

// productUpdate builds a partial update from the fields present in the form.
// Tags, colors and sizes arrive as one comma-separated value each.
func (f *productForm) productUpdate() (*domain.ProductUpdate, error) {
	u := &domain.ProductUpdate{}

	for key, dst := range map[string]**string{
		"productName": &u.Name,
		"description": &u.Description,
		"category":    &u.CategoryID,
		"material":    &u.Material,
		"dimensions":  &u.Dimensions,
		"weight":      &u.Weight,
	} {
		if _, ok := f.get(key); !ok {
			continue
		}
		v := f.value(key)
		if key == "category" && v == "" {
			continue
		}
		*dst = &v
	}

	for key, dst := range map[string]**float64{
		"price":              &u.Price,
		"discountPercentage": &u.DiscountPercentage,
	} {
		n, ok, err := f.float(key)
		if err != nil {
			return nil, err
		}
		if ok {
			*dst = &n
		}
	}

	inventory, ok, err := f.int("inventory")
	if err != nil {
		return nil, err
	}
	if ok {
		u.Inventory = &inventory
	}

	if tags, ok := f.list("tags"); ok {
		u.Tags = tags
	}
	if colors, ok := f.list("colors"); ok {
		u.Colors = colors
	}
	if sizes, ok := f.list("sizes"); ok {
		u.Sizes = sizes
	}

	images, err := f.images()
	if err != nil {
		return nil, err
	}
	u.Images = images
	return u, nil
}
