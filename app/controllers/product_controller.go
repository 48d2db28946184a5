package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nikhilrana/saman/app/repositories"
	"github.com/nikhilrana/saman/app/serializers"
	"github.com/nikhilrana/saman/pkg/collection"
	"github.com/nikhilrana/saman/pkg/logger"
	"github.com/nikhilrana/saman/pkg/middleware"
	"github.com/nikhilrana/saman/pkg/response"
	"github.com/nikhilrana/saman/pkg/router"
	"github.com/nikhilrana/saman/pkg/storage"
	"github.com/nikhilrana/saman/pkg/validate"
)

const maxImageBytes = 10 << 20 // 10 MB upload cap

var allowedImageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ProductController exposes the product CRUD endpoints.
type ProductController struct {
	products *repositories.ProductRepository
	disk     storage.Disk
}

func NewProductController(products *repositories.ProductRepository, disk storage.Disk) *ProductController {
	return &ProductController{products: products, disk: disk}
}

// List returns every product as a JSON array.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.All()
	if err != nil {
		logger.WithCtx(r.Context()).Error("list products failed", "error", err.Error())
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.JSON(w, http.StatusOK, serializers.Products(products))
}

// Detail returns a single product by id.
func (c *ProductController) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}

	product, err := c.products.Find(id)
	if err != nil {
		c.renderFindError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, serializers.Product(product))
}

// Create validates the payload and inserts a new product. When the body
// carries no owner, the product is assigned to the authenticated caller.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var input serializers.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if errs := input.Validate(false); errs.Any() {
		response.ValidationError(w, errs)
		return
	}

	if input.User == nil {
		if uid, ok := middleware.UserIDFromCtx(r.Context()); ok {
			input.User = &uid
		}
	}

	product := input.Model()
	if err := c.products.Create(&product); err != nil {
		c.renderWriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "product_id", product.ID)
	response.JSON(w, http.StatusCreated, serializers.Product(product))
}

// Update applies a partial update: only the supplied fields are validated
// and written, everything else keeps its prior value.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}

	product, err := c.products.Find(id)
	if err != nil {
		c.renderFindError(w, r, err)
		return
	}

	var input serializers.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if errs := input.Validate(true); errs.Any() {
		response.ValidationError(w, errs)
		return
	}

	if err := c.products.Update(&product, input.Changes()); err != nil {
		c.renderWriteError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, serializers.Product(product))
}

// Delete removes a product and answers an empty 204.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}

	if err := c.products.Delete(id); err != nil {
		c.renderFindError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product deleted", "product_id", id)
	response.NoContent(w)
}

// UploadImage stores a multipart image on the configured disk and points the
// product's image field at its public URL.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}

	product, err := c.products.Find(id)
	if err != nil {
		c.renderFindError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		errs := validate.Errors{}
		errs.Add("image", "The image file is required.")
		response.ValidationError(w, errs)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !collection.Contains(allowedImageExts, ext) {
		errs := validate.Errors{}
		errs.Add("image", "Unsupported image type.")
		response.ValidationError(w, errs)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "could not read upload")
		return
	}

	path := "products/" + uuid.NewString() + ext
	if err := c.disk.Put(path, data); err != nil {
		logger.WithCtx(r.Context()).Error("image upload failed", "error", err.Error())
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := c.products.Update(&product, map[string]interface{}{"image": c.disk.URL(path)}); err != nil {
		c.renderWriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product image updated", "product_id", product.ID, "path", path)
	response.JSON(w, http.StatusOK, serializers.Product(product))
}

// productID parses the {id} route parameter. A non-numeric id behaves like a
// missing record.
func productID(r *http.Request) (uint, bool) {
	raw := router.Param(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (c *ProductController) renderFindError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Product not found")
		return
	}
	logger.WithCtx(r.Context()).Error("product lookup failed", "error", err.Error())
	response.Error(w, http.StatusInternalServerError, "Internal Server Error")
}

func (c *ProductController) renderWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		response.Conflict(w, "This user already owns a product")
	case errors.Is(err, repositories.ErrInvalidReference):
		errs := validate.Errors{}
		errs.Add("user", "Referenced user does not exist.")
		response.ValidationError(w, errs)
	default:
		logger.WithCtx(r.Context()).Error("product write failed", "error", err.Error())
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
