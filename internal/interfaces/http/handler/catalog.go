package handler

import (
	"github.com/furnitureops/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles collection and product endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalog.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateCollection godoc
// @ID           createCollection
// @Summary      Create a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateCollectionRequest true "Collection"
// @Success      201 {object} APIResponse[catalog.CollectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections [post]
func (h *CatalogHandler) CreateCollection(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req catalog.CreateCollectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	collection, err := h.catalogService.CreateCollection(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, collection)
}

// GetCollection godoc
// @ID           getCollection
// @Summary      Get a collection
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.CollectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id} [get]
func (h *CatalogHandler) GetCollection(c *gin.Context) {
	byID(&h.BaseHandler, c, h.catalogService.GetCollection)
}

// ListCollections godoc
// @ID           listCollections
// @Summary      List collections
// @Tags         collections
// @Produce      json
// @Param        search query string false "Name"
// @Param        status query string false "draft, active or archived"
// @Param        season query string false "Season"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.CollectionResponse]
// @Security     BearerAuth
// @Router       /collections [get]
func (h *CatalogHandler) ListCollections(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter catalog.CollectionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	collections, total, err := h.catalogService.ListCollections(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, collections, total, filter.Page, filter.PageSize)
}

// UpdateCollection godoc
// @ID           updateCollection
// @Summary      Update a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Param        request body catalog.UpdateCollectionRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalog.CollectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id} [put]
func (h *CatalogHandler) UpdateCollection(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateCollectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	collection, err := h.catalogService.UpdateCollection(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// ActivateCollection godoc
// @ID           activateCollection
// @Summary      Activate a collection
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.CollectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/activate [post]
func (h *CatalogHandler) ActivateCollection(c *gin.Context) {
	byID(&h.BaseHandler, c, h.catalogService.ActivateCollection)
}

// ArchiveCollection godoc
// @ID           archiveCollection
// @Summary      Archive a collection
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.CollectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/archive [post]
func (h *CatalogHandler) ArchiveCollection(c *gin.Context) {
	byID(&h.BaseHandler, c, h.catalogService.ArchiveCollection)
}

// DeleteCollection godoc
// @ID           deleteCollection
// @Summary      Delete a collection
// @Description  Only collections without products can be deleted
// @Tags         collections
// @Param        id path string true "Collection ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id} [delete]
func (h *CatalogHandler) DeleteCollection(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.catalogService.DeleteCollection)
}

// ListCollectionProducts godoc
// @ID           listCollectionProducts
// @Summary      List a collection's products
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Security     BearerAuth
// @Router       /collections/{id}/products [get]
func (h *CatalogHandler) ListCollectionProducts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var filter catalog.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.catalogService.ListCollectionProducts(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// CreateProduct godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req catalog.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetProduct godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	byID(&h.BaseHandler, c, h.catalogService.GetProduct)
}

// ListProducts godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "SKU or name"
// @Param        collection_id query string false "Collection ID" format(uuid)
// @Param        category query string false "Category"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Security     BearerAuth
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter catalog.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// UpdateProduct godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.catalogService.DeleteProduct)
}
