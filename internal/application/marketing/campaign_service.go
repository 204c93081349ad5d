package marketing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/marketing"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/notification"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultChunkSize = 50

// CampaignService manages SMS campaigns and fans their sends out in chunks
type CampaignService struct {
	campaignRepo marketing.CampaignRepository
	deliveryRepo marketing.DeliveryRepository
	customerRepo crm.CustomerRepository
	sms          notification.SMSSender
	chunkSize    int
	logger       *zap.Logger
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(
	campaignRepo marketing.CampaignRepository,
	deliveryRepo marketing.DeliveryRepository,
	customerRepo crm.CustomerRepository,
	sms notification.SMSSender,
	chunkSize int,
	logger *zap.Logger,
) *CampaignService {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &CampaignService{
		campaignRepo: campaignRepo,
		deliveryRepo: deliveryRepo,
		customerRepo: customerRepo,
		sms:          sms,
		chunkSize:    chunkSize,
		logger:       logger,
	}
}

// Create creates a draft campaign
func (s *CampaignService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateCampaignRequest) (*CampaignResponse, error) {
	recipients, err := s.resolveRecipients(ctx, tenantID, req.CustomerIDs, req.Phones)
	if err != nil {
		return nil, err
	}
	campaign, err := marketing.NewSMSCampaign(tenantID, req.Name, req.Message, recipients)
	if err != nil {
		return nil, err
	}
	campaign.SetCreatedBy(actorID)
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	s.logger.Info("SMS campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.Int("recipients", len(campaign.Recipients)))
	resp := ToCampaignResponse(campaign)
	return &resp, nil
}

// GetByID retrieves a campaign by ID
func (s *CampaignService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(campaign)
	return &resp, nil
}

// List retrieves a page of campaigns
func (s *CampaignService) List(ctx context.Context, tenantID uuid.UUID, filter CampaignListFilter) ([]CampaignResponse, int64, error) {
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

	list, err := s.campaignRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.campaignRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCampaignResponses(list), total, nil
}

// Update edits a draft campaign
func (s *CampaignService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	name, message, recipients := campaign.Name, campaign.Message, campaign.Recipients
	if req.Name != nil {
		name = *req.Name
	}
	if req.Message != nil {
		message = *req.Message
	}
	if req.CustomerIDs != nil || req.Phones != nil {
		var ids []uuid.UUID
		var phones []string
		if req.CustomerIDs != nil {
			ids = *req.CustomerIDs
		}
		if req.Phones != nil {
			phones = *req.Phones
		}
		if recipients, err = s.resolveRecipients(ctx, tenantID, ids, phones); err != nil {
			return nil, err
		}
	}
	if err := campaign.Update(name, message, recipients); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(campaign)
	return &resp, nil
}

// Delete removes a campaign that is not currently sending
func (s *CampaignService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if campaign.Status == marketing.CampaignStatusSending {
		return shared.NewDomainError("INVALID_STATE", "Campaign is still sending")
	}
	return s.campaignRepo.DeleteForTenant(ctx, tenantID, id)
}

// Send delivers the campaign. Chunks run one after another and the sends of
// a chunk run in parallel. A failed send is recorded and never stops the run.
// Once the campaign is marked sending the run no longer follows ctx's
// cancellation, so a dropped request cannot leave it stuck in sending.
func (s *CampaignService) Send(ctx context.Context, tenantID, id uuid.UUID) (*CampaignResponse, error) {
	if s.sms == nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE_ERROR", "SMS provider is not configured")
	}
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := campaign.Start(); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	chunks := campaign.Chunks(s.chunkSize)
	s.logger.Info("SMS campaign sending",
		zap.String("campaign_id", campaign.ID.String()),
		zap.Int("recipients", len(campaign.Recipients)),
		zap.Int("chunks", len(chunks)))

	sent, failed := 0, 0
	for i, chunk := range chunks {
		deliveries := s.sendChunk(ctx, campaign, chunk)
		for _, d := range deliveries {
			if d.Status == marketing.DeliverySent {
				sent++
			} else {
				failed++
			}
		}
		if err := s.deliveryRepo.SaveBatch(ctx, deliveries); err != nil {
			s.logger.Error("Failed to record SMS deliveries",
				zap.String("campaign_id", campaign.ID.String()),
				zap.Int("chunk", i),
				zap.Error(err))
		}
	}

	campaign.Finish(sent, failed)
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	s.logger.Info("SMS campaign finished",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("status", string(campaign.Status)),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
	resp := ToCampaignResponse(campaign)
	return &resp, nil
}

// ListDeliveries lists the per-recipient outcomes of a campaign
func (s *CampaignService) ListDeliveries(ctx context.Context, tenantID, campaignID uuid.UUID, filter DeliveryListFilter) ([]DeliveryResponse, int64, error) {
	if _, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, campaignID); err != nil {
		return nil, 0, err
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "asc",
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	list, err := s.deliveryRepo.FindByCampaign(ctx, tenantID, campaignID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.deliveryRepo.CountByCampaign(ctx, tenantID, campaignID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToDeliveryResponses(list), total, nil
}

// sendChunk dispatches every recipient of the chunk concurrently. The
// returned deliveries keep the chunk's recipient order.
func (s *CampaignService) sendChunk(ctx context.Context, campaign *marketing.SMSCampaign, chunk []marketing.Recipient) []*marketing.Delivery {
	deliveries := make([]*marketing.Delivery, len(chunk))
	var g errgroup.Group
	for i, r := range chunk {
		g.Go(func() error {
			body := automation.RenderTemplate(campaign.Message, r.Vars)
			providerID, err := s.safeSend(ctx, r.Phone, body)
			if err != nil {
				s.logger.Warn("SMS send failed",
					zap.String("campaign_id", campaign.ID.String()),
					zap.String("phone", r.Phone),
					zap.Error(err))
			}
			deliveries[i] = marketing.NewDelivery(campaign, r, providerID, err)
			return nil
		})
	}
	_ = g.Wait()
	return deliveries
}

func (s *CampaignService) safeSend(ctx context.Context, to, body string) (providerID string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sms sender panicked: %v", r)
		}
	}()
	return s.sms.Send(ctx, to, body)
}

// resolveRecipients merges customer phones and raw numbers. Customers without
// a phone are skipped.
func (s *CampaignService) resolveRecipients(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID, phones []string) ([]marketing.Recipient, error) {
	recipients := make([]marketing.Recipient, 0, len(customerIDs)+len(phones))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	resolved := make([]*marketing.Recipient, len(customerIDs))
	for i, id := range customerIDs {
		g.Go(func() error {
			customer, err := s.customerRepo.FindByIDForTenant(gctx, tenantID, id)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist: "+id.String())
				}
				return err
			}
			if strings.TrimSpace(customer.Phone) == "" {
				return nil
			}
			resolved[i] = &marketing.Recipient{
				CustomerID: &customer.ID,
				Phone:      customer.Phone,
				Vars: map[string]any{
					"name":       customer.Name,
					"first_name": firstName(customer.Name),
					"company":    customer.Company,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	skipped := 0
	for _, r := range resolved {
		if r == nil {
			skipped++
			continue
		}
		recipients = append(recipients, *r)
	}
	if skipped > 0 {
		s.logger.Debug("Customers without phone skipped", zap.Int("count", skipped))
	}
	for _, p := range phones {
		recipients = append(recipients, marketing.Recipient{Phone: p})
	}
	return recipients, nil
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
