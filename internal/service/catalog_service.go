package service

import (
	"errors"
	"fmt"
	"io"

	"catalog-service/internal/model"
	"catalog-service/internal/repository"
	"catalog-service/internal/storage"

	"go.uber.org/zap"
)

// ProductDraft is the caller-supplied payload for create and update. The id
// is never part of the draft; on update the path id always wins. Image may
// name an already stored attachment; on create it is overridden by the
// uploaded file when one is attached.
type ProductDraft struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
	Image          *string `json:"image,omitempty"`
	PresentationID *uint   `json:"presentation_id,omitempty"`
}

// validate returns the human-readable messages that reject the draft, empty
// when the draft is acceptable.
func (d *ProductDraft) validate() []string {
	var messages []string
	if d.Name == "" {
		messages = append(messages, "name is required")
	}
	if d.Price <= 0 {
		messages = append(messages, "price must be greater than zero")
	}
	if d.Stock < 0 {
		messages = append(messages, "stock must not be negative")
	}
	return messages
}

// Upload is an attachment handed to Create alongside a draft.
type Upload struct {
	FileName string
	Size     int64
	Content  io.Reader
}

// UploadResult describes the stored attachment for the caller to surface.
type UploadResult struct {
	FileName    string `json:"file_name"`
	DownloadURI string `json:"download_uri"`
	Size        int64  `json:"size"`
}

// DownloadPath is the route prefix under which stored files are served.
const DownloadPath = "/api/products/files/"

// CatalogService orchestrates the product repository and the attachment
// store and translates their failures into the service error taxonomy.
type CatalogService struct {
	repo  repository.ProductRepository
	store *storage.Store
	log   *zap.Logger
}

// NewCatalogService wires a CatalogService.
func NewCatalogService(repo repository.ProductRepository, store *storage.Store, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, store: store, log: log}
}

// List returns products sorted by sortKey. Pagination is engaged only when
// both page and size are given; supplying exactly one is a validation
// failure. The paged variant returns only the content slice, use ListPage
// when the total count is needed.
func (s *CatalogService) List(page, size *int, sortKey string) ([]model.Product, error) {
	switch {
	case page == nil && size == nil:
		products, err := s.repo.FindAllSorted(sortKey)
		if err != nil {
			return nil, s.persistence("list products", err)
		}
		return products, nil
	case page != nil && size != nil:
		products, _, err := s.ListPage(*page, *size, sortKey)
		return products, err
	default:
		return nil, &ValidationError{Messages: []string{"page and size must be provided together"}}
	}
}

// ListPage returns one page of products plus the total row count.
func (s *CatalogService) ListPage(page, size int, sortKey string) ([]model.Product, int64, error) {
	products, total, err := s.repo.FindPage(page, size, sortKey)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidPage) {
			return nil, 0, &ValidationError{Messages: []string{
				fmt.Sprintf("invalid page request: page must be >= 0 and size > 0 (got page=%d, size=%d)", page, size),
			}}
		}
		return nil, 0, s.persistence("page products", err)
	}
	return products, total, nil
}

// Get fetches one product with its presentation.
func (s *CatalogService) Get(id uint) (*model.Product, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.persistence("get product", err)
	}
	return product, nil
}

// Create validates the draft, saves the attachment if one was uploaded,
// binds its stored name to the product's image field, and persists the row.
// File save and row insert are two steps on purpose: a crash between them
// orphans a file but never leaves a corrupt row.
func (s *CatalogService) Create(draft ProductDraft, upload *Upload) (*model.Product, *UploadResult, error) {
	if messages := draft.validate(); len(messages) > 0 {
		return nil, nil, &ValidationError{Messages: messages}
	}
	if err := s.checkImage(draft.Image); err != nil {
		return nil, nil, err
	}

	product := model.Product{
		Name:           draft.Name,
		Description:    draft.Description,
		Price:          draft.Price,
		Stock:          draft.Stock,
		Image:          draft.Image,
		PresentationID: draft.PresentationID,
	}

	var uploadResult *UploadResult
	if upload != nil {
		// Bind the stored name the store actually wrote: the store
		// sanitizes the original name, so composing it here from the raw
		// upload name could reference a file that does not exist.
		_, storedName, err := s.store.Save(upload.FileName, upload.Content)
		if err != nil {
			return nil, nil, s.persistence("save attachment", err)
		}
		product.Image = &storedName
		uploadResult = &UploadResult{
			FileName:    storedName,
			DownloadURI: DownloadPath + storedName,
			Size:        upload.Size,
		}
	}

	if err := s.repo.Save(&product); err != nil {
		return nil, nil, s.persistence("create product", err)
	}
	return &product, uploadResult, nil
}

// Update forces the draft's id to the path-supplied id and upserts: every
// mutable field, the image included, is replaced wholesale, and an id with no
// existing row inserts at that id rather than reporting not found.
func (s *CatalogService) Update(id uint, draft ProductDraft) (*model.Product, error) {
	if messages := draft.validate(); len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}
	if err := s.checkImage(draft.Image); err != nil {
		return nil, err
	}

	product := model.Product{
		ID:             id,
		Name:           draft.Name,
		Description:    draft.Description,
		Price:          draft.Price,
		Stock:          draft.Stock,
		Image:          draft.Image,
		PresentationID: draft.PresentationID,
	}

	if err := s.repo.Save(&product); err != nil {
		return nil, s.persistence("update product", err)
	}
	return &product, nil
}

// Remove deletes the product at id, fetch-then-delete so a missing row
// reports NotFound rather than a persistence failure.
func (s *CatalogService) Remove(id uint) error {
	product, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return s.persistence("get product for delete", err)
	}
	if err := s.repo.Delete(product); err != nil {
		return s.persistence("delete product", err)
	}
	return nil
}

// File resolves a stored attachment by its code for download.
func (s *CatalogService) File(fileCode string) (*storage.StoredFile, error) {
	file, err := s.store.Resolve(fileCode)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.persistence("resolve attachment", err)
	}
	return file, nil
}

// checkImage rejects a draft-supplied image reference that does not name a
// file already in the attachment store.
func (s *CatalogService) checkImage(image *string) error {
	if image == nil {
		return nil
	}
	if _, err := s.store.Resolve(*image); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return &ValidationError{Messages: []string{"image does not name a stored file"}}
		}
		return s.persistence("resolve image reference", err)
	}
	return nil
}

// persistence logs the full failure internally and returns the opaque
// wrapper the boundary is allowed to see.
func (s *CatalogService) persistence(op string, err error) error {
	s.log.Error("catalog persistence failure", zap.String("operation", op), zap.Error(err))
	return &PersistenceError{cause: err}
}
