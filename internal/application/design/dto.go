package design

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/design"
	"github.com/google/uuid"
)

// CreateBoardRequest represents a request to create a design board
type CreateBoardRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=200"`
	Description  string     `json:"description" binding:"max=5000"`
	CustomerID   *uuid.UUID `json:"customer_id"`
	CollectionID *uuid.UUID `json:"collection_id"`
}

// UpdateBoardRequest represents a partial board update
type UpdateBoardRequest struct {
	Name         *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string    `json:"description" binding:"omitempty,max=5000"`
	CustomerID   *uuid.UUID `json:"customer_id"`
	CollectionID *uuid.UUID `json:"collection_id"`
}

// BoardListFilter represents filter options for the board list
type BoardListFilter struct {
	Search       string     `form:"search"`
	Status       string     `form:"status" binding:"omitempty,oneof=draft shared approved"`
	CustomerID   *uuid.UUID `form:"customer_id"`
	CollectionID *uuid.UUID `form:"collection_id"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AssetUploadRequest asks for a presigned upload URL
type AssetUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// AssetUploadResponse carries the presigned upload target
type AssetUploadResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ConfirmAssetRequest pins an uploaded object to the board
type ConfirmAssetRequest struct {
	Key      string `json:"key" binding:"required,max=500"`
	FileName string `json:"file_name" binding:"required,max=255"`
}

// AssetDownloadResponse carries a presigned download URL
type AssetDownloadResponse struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AssetResponse represents a board asset
type AssetResponse struct {
	Key         string    `json:"key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	AddedAt     time.Time `json:"added_at"`
}

// BoardResponse represents a design board in API responses
type BoardResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CustomerID   *uuid.UUID      `json:"customer_id"`
	CollectionID *uuid.UUID      `json:"collection_id"`
	Status       string          `json:"status"`
	Assets       []AssetResponse `json:"assets"`
	SharedAt     *time.Time      `json:"shared_at,omitempty"`
	ApprovedAt   *time.Time      `json:"approved_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToBoardResponse converts a domain Board to BoardResponse
func ToBoardResponse(b *design.Board) BoardResponse {
	assets := make([]AssetResponse, len(b.Assets))
	for i, a := range b.Assets {
		assets[i] = AssetResponse{
			Key:         a.Key,
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Size:        a.Size,
			AddedAt:     a.AddedAt,
		}
	}
	return BoardResponse{
		ID:           b.ID,
		TenantID:     b.TenantID,
		Name:         b.Name,
		Description:  b.Description,
		CustomerID:   b.CustomerID,
		CollectionID: b.CollectionID,
		Status:       string(b.Status),
		Assets:       assets,
		SharedAt:     b.SharedAt,
		ApprovedAt:   b.ApprovedAt,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
		Version:      b.Version,
	}
}

// ToBoardResponses converts a slice of domain Boards
func ToBoardResponses(list []design.Board) []BoardResponse {
	responses := make([]BoardResponse, len(list))
	for i := range list {
		responses[i] = ToBoardResponse(&list[i])
	}
	return responses
}

// CreateReviewRequest schedules a factory review
type CreateReviewRequest struct {
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Reviewer    string    `json:"reviewer" binding:"max=200"`
	Location    string    `json:"location" binding:"max=300"`
}

// UpdateReviewRequest reschedules a review
type UpdateReviewRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
	Reviewer    *string    `json:"reviewer" binding:"omitempty,max=200"`
	Location    *string    `json:"location" binding:"omitempty,max=300"`
}

// AddFindingRequest records an issue found during a review
type AddFindingRequest struct {
	Item     string `json:"item" binding:"required,max=300"`
	Severity string `json:"severity" binding:"required,oneof=minor major critical"`
	Note     string `json:"note" binding:"max=2000"`
}

// CompleteReviewRequest closes a review. An empty outcome is derived from the findings.
type CompleteReviewRequest struct {
	Outcome string `json:"outcome" binding:"omitempty,oneof=approved rework_required"`
}

// ReviewListFilter represents filter options for the review list
type ReviewListFilter struct {
	OrderID  *uuid.UUID `form:"order_id"`
	Status   string     `form:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// FindingResponse is a review finding
type FindingResponse struct {
	Item     string    `json:"item"`
	Severity string    `json:"severity"`
	Note     string    `json:"note"`
	NotedAt  time.Time `json:"noted_at"`
}

// ReviewResponse represents a factory review in API responses
type ReviewResponse struct {
	ID          uuid.UUID         `json:"id"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	OrderID     uuid.UUID         `json:"order_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Reviewer    string            `json:"reviewer"`
	Location    string            `json:"location"`
	Status      string            `json:"status"`
	Findings    []FindingResponse `json:"findings"`
	Outcome     string            `json:"outcome,omitempty"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int               `json:"version"`
}

// ToReviewResponse converts a domain FactoryReview to ReviewResponse
func ToReviewResponse(r *design.FactoryReview) ReviewResponse {
	findings := make([]FindingResponse, len(r.Findings))
	for i, f := range r.Findings {
		findings[i] = FindingResponse{
			Item:     f.Item,
			Severity: string(f.Severity),
			Note:     f.Note,
			NotedAt:  f.NotedAt,
		}
	}
	return ReviewResponse{
		ID:          r.ID,
		TenantID:    r.TenantID,
		OrderID:     r.OrderID,
		ScheduledAt: r.ScheduledAt,
		Reviewer:    r.Reviewer,
		Location:    r.Location,
		Status:      string(r.Status),
		Findings:    findings,
		Outcome:     string(r.Outcome),
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// ToReviewResponses converts a slice of domain reviews
func ToReviewResponses(list []design.FactoryReview) []ReviewResponse {
	responses := make([]ReviewResponse, len(list))
	for i := range list {
		responses[i] = ToReviewResponse(&list[i])
	}
	return responses
}
