package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"catalog-service/internal/service"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductHandler translates HTTP requests into catalog service calls and
// maps the service error taxonomy onto status codes.
type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// respondError owns the status-code mapping: NotFound -> 404,
// ValidationFailed -> 400 with the messages verbatim, everything else -> 500
// with the safe summary only.
func respondError(c echo.Context, err error) error {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": validationErr.Messages})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, &service.ValidationError{Messages: []string{"id must be a positive integer"}}
	}
	return uint(id), nil
}

// List handles GET /api/products?page=&size=&sort=. Pagination engages only
// when both page and size are present.
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var page, size *int
	for _, param := range []struct {
		name string
		dst  **int
	}{{"page", &page}, {"size", &size}} {
		raw := c.QueryParam(param.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("Invalid pagination parameter", zap.String("param", param.name), zap.String("value", raw))
			return respondError(c, &service.ValidationError{
				Messages: []string{fmt.Sprintf("%s must be an integer", param.name)},
			})
		}
		*param.dst = &v
	}

	products, err := h.catalog.List(page, size, c.QueryParam("sort"))
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordProductOperation("list")
	log.Info("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.catalog.Get(id)
	if err != nil {
		log.Warn("Failed to get product", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordProductOperation("get")
	log.Info("Product retrieved", zap.Uint("product_id", id), zap.String("name", product.Name))
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("found product with id %d", id),
		"product": product,
	})
}

// Create handles POST /api/products. Multipart requests carry the draft in a
// "product" JSON part plus an optional "file" part; plain JSON bodies are
// also accepted when there is no attachment.
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var draft service.ProductDraft
	var upload *service.Upload

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		raw := c.FormValue("product")
		if raw == "" {
			return respondError(c, &service.ValidationError{Messages: []string{"product part is required"}})
		}
		if err := json.Unmarshal([]byte(raw), &draft); err != nil {
			log.Warn("Malformed product part", zap.Error(err))
			return respondError(c, &service.ValidationError{Messages: []string{"product part is not valid JSON"}})
		}

		fileHeader, err := c.FormFile("file")
		switch {
		case err == nil:
			src, err := fileHeader.Open()
			if err != nil {
				log.Error("Failed to open uploaded file", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read uploaded file"})
			}
			defer src.Close()
			upload = &service.Upload{
				FileName: fileHeader.Filename,
				Size:     fileHeader.Size,
				Content:  src,
			}
		case errors.Is(err, http.ErrMissingFile):
			// No attachment, nothing to do.
		default:
			log.Warn("Bad file part", zap.Error(err))
			return respondError(c, &service.ValidationError{Messages: []string{"file part is malformed"}})
		}
	} else {
		if err := c.Bind(&draft); err != nil {
			log.Warn("Invalid request body", zap.Error(err))
			return respondError(c, &service.ValidationError{Messages: []string{"request body is not valid JSON"}})
		}
	}

	product, uploadResult, err := h.catalog.Create(draft, upload)
	if err != nil {
		log.Error("Failed to create product", zap.String("name", draft.Name), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordProductOperation("create")
	response := echo.Map{
		"message": "product created",
		"product": product,
	}
	if uploadResult != nil {
		prometheus.RecordAttachmentUpload(uploadResult.Size)
		response["file"] = uploadResult
		log.Info("Attachment stored",
			zap.String("file_name", uploadResult.FileName),
			zap.Int64("size", uploadResult.Size))
	}
	log.Info("Product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, response)
}

// Update handles PUT /api/products/:id. The path id always wins over any id
// in the payload.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var draft service.ProductDraft
	if err := c.Bind(&draft); err != nil {
		log.Warn("Invalid request body", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, &service.ValidationError{Messages: []string{"request body is not valid JSON"}})
	}

	product, err := h.catalog.Update(id, draft)
	if err != nil {
		log.Error("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated", zap.Uint("product_id", id), zap.String("name", product.Name))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "product updated",
		"product": product,
	})
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.catalog.Remove(id); err != nil {
		log.Warn("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}

// Download handles GET /api/products/files/:fileCode and serves the stored
// file as a generic octet-stream attachment.
func (h *ProductHandler) Download(c echo.Context) error {
	log := logger.FromContext(c)
	fileCode := c.Param("fileCode")

	file, err := h.catalog.File(fileCode)
	if err != nil {
		log.Warn("Failed to resolve attachment", zap.String("file_code", fileCode), zap.Error(err))
		return respondError(c, err)
	}

	src, err := file.Open()
	if err != nil {
		log.Error("Failed to open stored file", zap.String("file", file.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read stored file"})
	}
	defer src.Close()

	prometheus.RecordAttachmentDownload()
	log.Info("Serving attachment", zap.String("file", file.Name), zap.Int64("size", file.Size))

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, file.Name))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, src)
}
