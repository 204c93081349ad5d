package handler

import (
	"github.com/furnitureops/backend/internal/application/design"
	"github.com/gin-gonic/gin"
)

// DesignHandler handles design boards and factory reviews
type DesignHandler struct {
	BaseHandler
	boardService  *design.BoardService
	reviewService *design.ReviewService
}

// NewDesignHandler creates a new DesignHandler
func NewDesignHandler(boardService *design.BoardService, reviewService *design.ReviewService) *DesignHandler {
	return &DesignHandler{
		boardService:  boardService,
		reviewService: reviewService,
	}
}

// CreateBoard godoc
// @ID           createBoard
// @Summary      Create a design board
// @Tags         design
// @Accept       json
// @Produce      json
// @Param        request body design.CreateBoardRequest true "Board"
// @Success      201 {object} APIResponse[design.BoardResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards [post]
func (h *DesignHandler) CreateBoard(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req design.CreateBoardRequest
	if !h.bindJSON(c, &req) {
		return
	}

	board, err := h.boardService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, board)
}

// GetBoard godoc
// @ID           getBoard
// @Summary      Get a design board
// @Tags         design
// @Produce      json
// @Param        id path string true "Board ID" format(uuid)
// @Success      200 {object} APIResponse[design.BoardResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards/{id} [get]
func (h *DesignHandler) GetBoard(c *gin.Context) {
	byID(&h.BaseHandler, c, h.boardService.GetByID)
}

// ListBoards godoc
// @ID           listBoards
// @Summary      List design boards
// @Tags         design
// @Produce      json
// @Param        search query string false "Title"
// @Param        status query string false "draft, shared or approved"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        collection_id query string false "Collection ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]design.BoardResponse]
// @Security     BearerAuth
// @Router       /boards [get]
func (h *DesignHandler) ListBoards(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter design.BoardListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.boardService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// UpdateBoard godoc
// @ID           updateBoard
// @Summary      Update a design board
// @Tags         design
// @Accept       json
// @Produce      json
// @Param        id path string true "Board ID" format(uuid)
// @Param        request body design.UpdateBoardRequest true "Fields to change"
// @Success      200 {object} APIResponse[design.BoardResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards/{id} [put]
func (h *DesignHandler) UpdateBoard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req design.UpdateBoardRequest
	if !h.bindJSON(c, &req) {
		return
	}

	board, err := h.boardService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, board)
}

// DeleteBoard godoc
// @ID           deleteBoard
// @Summary      Delete a design board and its assets
// @Tags         design
// @Param        id path string true "Board ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /boards/{id} [delete]
func (h *DesignHandler) DeleteBoard(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.boardService.Delete)
}

// RequestAssetUpload godoc
// @ID           requestBoardAssetUpload
// @Summary      Presigned upload URL for a board asset
// @Tags         design
// @Accept       json
// @Produce      json
// @Param        id path string true "Board ID" format(uuid)
// @Param        request body design.AssetUploadRequest true "File metadata"
// @Success      200 {object} APIResponse[design.AssetUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards/{id}/assets/upload-url [post]
func (h *DesignHandler) RequestAssetUpload(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req design.AssetUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.boardService.RequestAssetUpload(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// ConfirmAsset godoc
// @ID           confirmBoardAsset
// @Summary      Attach an uploaded asset
// @Tags         design
// @Accept       json
// @Produce      json
// @Param        id path string true "Board ID" format(uuid)
// @Param        request body design.ConfirmAssetRequest true "Uploaded object"
// @Success      200 {object} APIResponse[design.BoardResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards/{id}/assets [post]
func (h *DesignHandler) ConfirmAsset(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req design.ConfirmAssetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	board, err := h.boardService.ConfirmAsset(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, board)
}

// AssetDownloadURL godoc
// @ID           getBoardAssetURL
// @Summary      Presigned download URL for a board asset
// @Tags         design
// @Produce      json
// @Param        id path string true "Board ID" format(uuid)
// @Param        key query string true "Asset key"
// @Success      200 {object} APIResponse[design.AssetDownloadResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards/{id}/assets/url [get]
func (h *DesignHandler) AssetDownloadURL(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "key is required")
		return
	}

	link, err := h.boardService.AssetDownloadURL(c.Request.Context(), tenantID, id, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// RemoveAsset godoc
// @ID           removeBoardAsset
// @Summary      Remove an asset from a board
// @Tags         design
// @Produce      json
// @Param        id path string true "Board ID" format(uuid)
// @Param        key query string true "Asset key"
// @Success      200 {object} APIResponse[design.BoardResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards/{id}/assets [delete]
func (h *DesignHandler) RemoveAsset(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "key is required")
		return
	}

	board, err := h.boardService.RemoveAsset(c.Request.Context(), tenantID, id, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, board)
}

// ShareBoard godoc
// @ID           shareBoard
// @Summary      Share a board with the customer
// @Tags         design
// @Produce      json
// @Param        id path string true "Board ID" format(uuid)
// @Success      200 {object} APIResponse[design.BoardResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards/{id}/share [post]
func (h *DesignHandler) ShareBoard(c *gin.Context) {
	byID(&h.BaseHandler, c, h.boardService.Share)
}

// ApproveBoard godoc
// @ID           approveBoard
// @Summary      Record customer approval of a board
// @Tags         design
// @Produce      json
// @Param        id path string true "Board ID" format(uuid)
// @Success      200 {object} APIResponse[design.BoardResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boards/{id}/approve [post]
func (h *DesignHandler) ApproveBoard(c *gin.Context) {
	byID(&h.BaseHandler, c, h.boardService.Approve)
}

// CreateReview godoc
// @ID           createReview
// @Summary      Schedule a factory review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body design.CreateReviewRequest true "Review"
// @Success      201 {object} APIResponse[design.ReviewResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews [post]
func (h *DesignHandler) CreateReview(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req design.CreateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, review)
}

// GetReview godoc
// @ID           getReview
// @Summary      Get a factory review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[design.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [get]
func (h *DesignHandler) GetReview(c *gin.Context) {
	byID(&h.BaseHandler, c, h.reviewService.GetByID)
}

// ListReviews godoc
// @ID           listReviews
// @Summary      List factory reviews
// @Tags         reviews
// @Produce      json
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        status query string false "scheduled, in_progress, completed or cancelled"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]design.ReviewResponse]
// @Security     BearerAuth
// @Router       /reviews [get]
func (h *DesignHandler) ListReviews(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter design.ReviewListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.reviewService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// UpdateReview godoc
// @ID           updateReview
// @Summary      Reschedule or edit a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Param        request body design.UpdateReviewRequest true "Fields to change"
// @Success      200 {object} APIResponse[design.ReviewResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [put]
func (h *DesignHandler) UpdateReview(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req design.UpdateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// DeleteReview godoc
// @ID           deleteReview
// @Summary      Delete a review
// @Tags         reviews
// @Param        id path string true "Review ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [delete]
func (h *DesignHandler) DeleteReview(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.reviewService.Delete)
}

// StartReview godoc
// @ID           startReview
// @Summary      Start a review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[design.ReviewResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id}/start [post]
func (h *DesignHandler) StartReview(c *gin.Context) {
	byID(&h.BaseHandler, c, h.reviewService.Start)
}

// AddFinding godoc
// @ID           addReviewFinding
// @Summary      Record a finding
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Param        request body design.AddFindingRequest true "Finding"
// @Success      200 {object} APIResponse[design.ReviewResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id}/findings [post]
func (h *DesignHandler) AddFinding(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req design.AddFindingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.AddFinding(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// CompleteReview godoc
// @ID           completeReview
// @Summary      Complete a review with an outcome
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Param        request body design.CompleteReviewRequest true "Outcome"
// @Success      200 {object} APIResponse[design.ReviewResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id}/complete [post]
func (h *DesignHandler) CompleteReview(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req design.CompleteReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Complete(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// CancelReview godoc
// @ID           cancelReview
// @Summary      Cancel a review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[design.ReviewResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id}/cancel [post]
func (h *DesignHandler) CancelReview(c *gin.Context) {
	byID(&h.BaseHandler, c, h.reviewService.Cancel)
}
