package design

import (
	"context"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/design"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// AssetPolicy bounds board asset uploads
type AssetPolicy struct {
	URLExpiry     time.Duration
	MaxUploadSize int64
}

// BoardService handles design board use cases
type BoardService struct {
	boardRepo design.BoardRepository
	store     storage.ObjectStore
	policy    AssetPolicy
	logger    *zap.Logger
}

// NewBoardService creates a new BoardService
func NewBoardService(boardRepo design.BoardRepository, store storage.ObjectStore, policy AssetPolicy, logger *zap.Logger) *BoardService {
	if policy.URLExpiry <= 0 {
		policy.URLExpiry = 15 * time.Minute
	}
	return &BoardService{
		boardRepo: boardRepo,
		store:     store,
		policy:    policy,
		logger:    logger,
	}
}

// Create creates a draft board
func (s *BoardService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateBoardRequest) (*BoardResponse, error) {
	board, err := design.NewBoard(tenantID, req.Name, req.Description, req.CustomerID, req.CollectionID)
	if err != nil {
		return nil, err
	}
	board.SetCreatedBy(actorID)
	if err := s.boardRepo.Save(ctx, board); err != nil {
		return nil, err
	}
	resp := ToBoardResponse(board)
	return &resp, nil
}

// GetByID retrieves a board by ID
func (s *BoardService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BoardResponse, error) {
	board, err := s.boardRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBoardResponse(board)
	return &resp, nil
}

// List retrieves a page of boards
func (s *BoardService) List(ctx context.Context, tenantID uuid.UUID, filter BoardListFilter) ([]BoardResponse, int64, error) {
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
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.CollectionID != nil {
		domainFilter.Filters["collection_id"] = *filter.CollectionID
	}

	list, err := s.boardRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.boardRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBoardResponses(list), total, nil
}

// Update applies a partial board update
func (s *BoardService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateBoardRequest) (*BoardResponse, error) {
	board, err := s.boardRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	name, description, customerID, collectionID := board.Name, board.Description, board.CustomerID, board.CollectionID
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.CustomerID != nil {
		customerID = req.CustomerID
	}
	if req.CollectionID != nil {
		collectionID = req.CollectionID
	}
	if err := board.Update(name, description, customerID, collectionID); err != nil {
		return nil, err
	}
	if err := s.boardRepo.Save(ctx, board); err != nil {
		return nil, err
	}
	resp := ToBoardResponse(board)
	return &resp, nil
}

// Delete deletes a board and its stored assets
func (s *BoardService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	board, err := s.boardRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.boardRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	for _, a := range board.Assets {
		if err := s.store.Delete(ctx, a.Key); err != nil {
			s.logger.Warn("Failed to delete board asset", zap.String("key", a.Key), zap.Error(err))
		}
	}
	return nil
}

// RequestAssetUpload returns a presigned PUT URL under the board's key prefix
func (s *BoardService) RequestAssetUpload(ctx context.Context, tenantID, id uuid.UUID, req AssetUploadRequest) (*AssetUploadResponse, error) {
	board, err := s.boardRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if board.Status == design.BoardStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Approved boards cannot be edited")
	}
	key := board.AssetKeyPrefix() + uuid.NewString() + "-" + sanitizeFileName(req.FileName)
	url, expiresAt, err := s.store.PresignUpload(ctx, key, req.ContentType, s.policy.URLExpiry)
	if err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to presign upload", err)
	}
	return &AssetUploadResponse{Key: key, UploadURL: url, ExpiresAt: expiresAt}, nil
}

// ConfirmAsset verifies an uploaded object exists and pins it to the board
func (s *BoardService) ConfirmAsset(ctx context.Context, tenantID, id uuid.UUID, req ConfirmAssetRequest) (*BoardResponse, error) {
	board, err := s.boardRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !board.OwnsKey(req.Key) {
		return nil, shared.NewDomainError("INVALID_ASSET_KEY", "Asset key does not belong to this board")
	}
	info, ok, err := s.store.Stat(ctx, req.Key)
	if err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to check uploaded object", err)
	}
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Uploaded object not found")
	}
	if s.policy.MaxUploadSize > 0 && info.Size > s.policy.MaxUploadSize {
		if err := s.store.Delete(ctx, req.Key); err != nil {
			s.logger.Warn("Failed to delete oversized upload", zap.String("key", req.Key), zap.Error(err))
		}
		return nil, shared.NewDomainError("INVALID_ASSET", "Uploaded file exceeds the size limit")
	}
	if err := board.AddAsset(design.Asset{
		Key:         req.Key,
		FileName:    req.FileName,
		ContentType: info.ContentType,
		Size:        info.Size,
	}); err != nil {
		return nil, err
	}
	if err := s.boardRepo.Save(ctx, board); err != nil {
		return nil, err
	}
	s.logger.Info("Board asset attached",
		zap.String("board_id", board.ID.String()),
		zap.String("key", req.Key),
		zap.Int64("size", info.Size))
	resp := ToBoardResponse(board)
	return &resp, nil
}

// AssetDownloadURL presigns a GET for an attached asset
func (s *BoardService) AssetDownloadURL(ctx context.Context, tenantID, id uuid.UUID, key string) (*AssetDownloadResponse, error) {
	board, err := s.boardRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, ok := board.FindAsset(key); !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Asset not found on board")
	}
	url, expiresAt, err := s.store.PresignDownload(ctx, key, s.policy.URLExpiry)
	if err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to presign download", err)
	}
	return &AssetDownloadResponse{Key: key, DownloadURL: url, ExpiresAt: expiresAt}, nil
}

// RemoveAsset unpins an asset and deletes the stored object
func (s *BoardService) RemoveAsset(ctx context.Context, tenantID, id uuid.UUID, key string) (*BoardResponse, error) {
	board, err := s.boardRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := board.RemoveAsset(key); err != nil {
		return nil, err
	}
	if err := s.boardRepo.Save(ctx, board); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete board asset", zap.String("key", key), zap.Error(err))
	}
	resp := ToBoardResponse(board)
	return &resp, nil
}

// Share makes a draft board visible to the customer
func (s *BoardService) Share(ctx context.Context, tenantID, id uuid.UUID) (*BoardResponse, error) {
	return s.transition(ctx, tenantID, id, (*design.Board).Share)
}

// Approve records customer sign-off on a shared board
func (s *BoardService) Approve(ctx context.Context, tenantID, id uuid.UUID) (*BoardResponse, error) {
	return s.transition(ctx, tenantID, id, (*design.Board).Approve)
}

func (s *BoardService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*design.Board) error) (*BoardResponse, error) {
	board, err := s.boardRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(board); err != nil {
		return nil, err
	}
	if err := s.boardRepo.Save(ctx, board); err != nil {
		return nil, err
	}
	resp := ToBoardResponse(board)
	return &resp, nil
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}
