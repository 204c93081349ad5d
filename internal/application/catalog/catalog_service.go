package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/furnitureops/backend/internal/domain/catalog"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService handles collection and product use cases
type CatalogService struct {
	collectionRepo catalog.CollectionRepository
	productRepo    catalog.ProductRepository
	logger         *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(collectionRepo catalog.CollectionRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		collectionRepo: collectionRepo,
		productRepo:    productRepo,
		logger:         logger,
	}
}

// CreateCollection creates a draft collection
func (s *CatalogService) CreateCollection(ctx context.Context, tenantID, actorID uuid.UUID, req CreateCollectionRequest) (*CollectionResponse, error) {
	collection, err := catalog.NewCollection(tenantID, req.Name, req.Description, req.Season)
	if err != nil {
		return nil, err
	}
	if req.CoverImageKey != "" {
		if err := collection.Update(collection.Name, collection.Description, collection.Season, req.CoverImageKey); err != nil {
			return nil, err
		}
	}
	collection.SetCreatedBy(actorID)
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}
	resp := ToCollectionResponse(collection)
	return &resp, nil
}

// GetCollection retrieves a collection by ID
func (s *CatalogService) GetCollection(ctx context.Context, tenantID, id uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCollectionResponse(collection)
	return &resp, nil
}

// ListCollections retrieves a page of collections
func (s *CatalogService) ListCollections(ctx context.Context, tenantID uuid.UUID, filter CollectionListFilter) ([]CollectionResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Season != "" {
		domainFilter.Filters["season"] = filter.Season
	}

	collections, err := s.collectionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.collectionRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCollectionResponses(collections), total, nil
}

// UpdateCollection applies a partial update
func (s *CatalogService) UpdateCollection(ctx context.Context, tenantID, id uuid.UUID, req UpdateCollectionRequest) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	name, description, season, cover := collection.Name, collection.Description, collection.Season, collection.CoverImageKey
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Season != nil {
		season = *req.Season
	}
	if req.CoverImageKey != nil {
		cover = *req.CoverImageKey
	}
	if err := collection.Update(name, description, season, cover); err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}
	resp := ToCollectionResponse(collection)
	return &resp, nil
}

// ActivateCollection publishes a draft collection
func (s *CatalogService) ActivateCollection(ctx context.Context, tenantID, id uuid.UUID) (*CollectionResponse, error) {
	return s.transitionCollection(ctx, tenantID, id, (*catalog.Collection).Activate)
}

// ArchiveCollection retires a collection
func (s *CatalogService) ArchiveCollection(ctx context.Context, tenantID, id uuid.UUID) (*CollectionResponse, error) {
	return s.transitionCollection(ctx, tenantID, id, (*catalog.Collection).Archive)
}

func (s *CatalogService) transitionCollection(ctx context.Context, tenantID, id uuid.UUID, apply func(*catalog.Collection) error) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(collection); err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}
	s.logger.Info("Collection status changed",
		zap.String("collection_id", id.String()),
		zap.String("status", string(collection.Status)))
	resp := ToCollectionResponse(collection)
	return &resp, nil
}

// DeleteCollection deletes a collection. Collections that still hold products cannot be deleted.
func (s *CatalogService) DeleteCollection(ctx context.Context, tenantID, id uuid.UUID) error {
	filter := shared.DefaultFilter()
	filter.Filters["collection_id"] = id
	count, err := s.productRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("INVALID_STATE", "Collection still contains products")
	}
	return s.collectionRepo.DeleteForTenant(ctx, tenantID, id)
}

// CreateProduct creates a new product
func (s *CatalogService) CreateProduct(ctx context.Context, tenantID, actorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, sku, req.Name, req.BasePrice)
	if err != nil {
		return nil, err
	}
	if err := product.SetSpecs(req.Category, req.Material, req.Finish, req.Dimensions, req.LeadTimeDays); err != nil {
		return nil, err
	}
	if req.CollectionID != nil {
		if err := s.ensureCollection(ctx, tenantID, *req.CollectionID); err != nil {
			return nil, err
		}
		product.AssignCollection(req.CollectionID)
	}
	if req.Active != nil {
		product.SetActive(*req.Active)
	}
	product.SetCreatedBy(actorID)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts retrieves a page of products
func (s *CatalogService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.CollectionID != nil {
		domainFilter.Filters["collection_id"] = *filter.CollectionID
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// ListCollectionProducts lists the products of one collection
func (s *CatalogService) ListCollectionProducts(ctx context.Context, tenantID, collectionID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if err := s.ensureCollection(ctx, tenantID, collectionID); err != nil {
		return nil, 0, err
	}
	filter.CollectionID = &collectionID
	return s.ListProducts(ctx, tenantID, filter)
}

// UpdateProduct applies a partial product update
func (s *CatalogService) UpdateProduct(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.BasePrice != nil {
		if err := product.SetPrice(*req.BasePrice); err != nil {
			return nil, err
		}
	}
	if req.Category != nil || req.Material != nil || req.Finish != nil || req.Dimensions != nil || req.LeadTimeDays != nil {
		category, material, finish, dims, lead := product.Category, product.Material, product.Finish, product.Dimensions, product.LeadTimeDays
		if req.Category != nil {
			category = *req.Category
		}
		if req.Material != nil {
			material = *req.Material
		}
		if req.Finish != nil {
			finish = *req.Finish
		}
		if req.Dimensions != nil {
			dims = *req.Dimensions
		}
		if req.LeadTimeDays != nil {
			lead = *req.LeadTimeDays
		}
		if err := product.SetSpecs(category, material, finish, dims, lead); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearCollection:
		product.AssignCollection(nil)
	case req.CollectionID != nil:
		if err := s.ensureCollection(ctx, tenantID, *req.CollectionID); err != nil {
			return nil, err
		}
		product.AssignCollection(req.CollectionID)
	}
	if req.Active != nil {
		product.SetActive(*req.Active)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// DeleteProduct deletes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.productRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *CatalogService) ensureCollection(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.collectionRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_COLLECTION", "Collection does not exist")
		}
		return err
	}
	return nil
}
