package marketing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/marketing"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	svc        *CampaignService
	campaigns  *testutil.MockCampaignRepository
	deliveries *testutil.MockDeliveryRepository
	customers  *testutil.MockCustomerRepository
	sms        *testutil.MockSMSSender
}

func setup(chunkSize int) fixture {
	f := fixture{
		campaigns:  new(testutil.MockCampaignRepository),
		deliveries: new(testutil.MockDeliveryRepository),
		customers:  new(testutil.MockCustomerRepository),
		sms:        new(testutil.MockSMSSender),
	}
	f.svc = NewCampaignService(f.campaigns, f.deliveries, f.customers, f.sms, chunkSize, zap.NewNop())
	return f
}

func newCampaign(t *testing.T, tenantID uuid.UUID, phones ...string) *marketing.SMSCampaign {
	t.Helper()
	recipients := make([]marketing.Recipient, len(phones))
	for i, p := range phones {
		recipients[i] = marketing.Recipient{Phone: p}
	}
	c, err := marketing.NewSMSCampaign(tenantID, "Autumn showroom", "Our autumn range is in, {{first_name}}", recipients)
	require.NoError(t, err)
	return c
}

func TestCampaignService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	t.Run("resolves customer phones", func(t *testing.T) {
		f := setup(0)
		withPhone, err := crm.NewCustomer(tenantID, "Ada Lund", "ada@example.com")
		require.NoError(t, err)
		require.NoError(t, withPhone.Update("Ada Lund", "ada@example.com", "+44 7700 900123", "", "", "", "", nil))
		noPhone, err := crm.NewCustomer(tenantID, "Bo Dahl", "bo@example.com")
		require.NoError(t, err)

		f.customers.On("FindByIDForTenant", mock.Anything, tenantID, withPhone.ID).Return(withPhone, nil)
		f.customers.On("FindByIDForTenant", mock.Anything, tenantID, noPhone.ID).Return(noPhone, nil)
		f.campaigns.On("Save", ctx, mock.AnythingOfType("*marketing.SMSCampaign")).Return(nil)

		resp, err := f.svc.Create(ctx, tenantID, actorID, CreateCampaignRequest{
			Name:        "Autumn showroom",
			Message:     "Hi {{first_name}}",
			CustomerIDs: []uuid.UUID{withPhone.ID, noPhone.ID},
			Phones:      []string{"555 010 0002", "+447700900123"},
		})
		require.NoError(t, err)
		assert.Equal(t, "draft", resp.Status)
		// the raw duplicate of Ada's number collapses into her entry
		require.Equal(t, 2, resp.RecipientCount)
		assert.Equal(t, withPhone.ID, *resp.Recipients[0].CustomerID)
		assert.Equal(t, "+447700900123", resp.Recipients[0].Phone)
		assert.Equal(t, "5550100002", resp.Recipients[1].Phone)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := setup(0)
		missing := uuid.New()
		f.customers.On("FindByIDForTenant", mock.Anything, tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, tenantID, actorID, CreateCampaignRequest{Name: "n", Message: "m", CustomerIDs: []uuid.UUID{missing}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CUSTOMER", domainErr.Code)
		f.campaigns.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCampaignService_Send(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("chunks run and failures are recorded", func(t *testing.T) {
		f := setup(2)
		var phones []string
		for i := 0; i < 5; i++ {
			phones = append(phones, fmt.Sprintf("555010000%d", i))
		}
		campaign := newCampaign(t, tenantID, phones...)
		campaign.Recipients[0].Vars = map[string]any{"first_name": "Ada"}

		f.campaigns.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)
		f.campaigns.On("Save", mock.Anything, campaign).Return(nil)
		f.sms.On("Send", mock.Anything, "5550100000", "Our autumn range is in, Ada").Return("SM0", nil)
		f.sms.On("Send", mock.Anything, "5550100003", mock.Anything).Return("", errors.New("unreachable"))
		f.sms.On("Send", mock.Anything, mock.Anything, "Our autumn range is in, ").Return("SMx", nil)

		var batches [][]*marketing.Delivery
		f.deliveries.On("SaveBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			batches = append(batches, args.Get(1).([]*marketing.Delivery))
		}).Return(nil)

		resp, err := f.svc.Send(ctx, tenantID, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, 4, resp.SentCount)
		assert.Equal(t, 1, resp.FailedCount)
		assert.NotNil(t, resp.CompletedAt)

		require.Len(t, batches, 3)
		assert.Len(t, batches[0], 2)
		assert.Len(t, batches[2], 1)
		assert.Equal(t, "SM0", batches[0][0].ProviderID)
		failed := batches[1][1]
		assert.Equal(t, marketing.DeliveryFailed, failed.Status)
		assert.Equal(t, "unreachable", failed.Error)
		f.sms.AssertNumberOfCalls(t, "Send", 5)
	})

	t.Run("all sends failing marks the campaign failed", func(t *testing.T) {
		f := setup(50)
		campaign := newCampaign(t, tenantID, "5550100001", "5550100002")
		f.campaigns.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)
		f.campaigns.On("Save", mock.Anything, campaign).Return(nil)
		f.sms.On("Send", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("provider down"))
		f.deliveries.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Send(ctx, tenantID, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, "failed", resp.Status)
		assert.Equal(t, 2, resp.FailedCount)
	})

	t.Run("delivery log failure does not stop the run", func(t *testing.T) {
		f := setup(1)
		campaign := newCampaign(t, tenantID, "5550100001", "5550100002")
		f.campaigns.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)
		f.campaigns.On("Save", mock.Anything, campaign).Return(nil)
		f.sms.On("Send", mock.Anything, mock.Anything, mock.Anything).Return("SM", nil)
		f.deliveries.On("SaveBatch", mock.Anything, mock.Anything).Return(errors.New("db down"))

		resp, err := f.svc.Send(ctx, tenantID, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.SentCount)
		f.deliveries.AssertNumberOfCalls(t, "SaveBatch", 2)
	})

	t.Run("dropped request still finishes the campaign", func(t *testing.T) {
		f := setup(1)
		campaign := newCampaign(t, tenantID, "5550100001", "5550100002")
		reqCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		type saved struct {
			status marketing.CampaignStatus
			ctxErr error
		}
		var saves []saved
		f.campaigns.On("FindByIDForTenant", reqCtx, tenantID, campaign.ID).Return(campaign, nil)
		f.campaigns.On("Save", mock.Anything, campaign).Run(func(args mock.Arguments) {
			saves = append(saves, saved{campaign.Status, args.Get(0).(context.Context).Err()})
		}).Return(nil)
		// the client goes away during the first send
		f.sms.On("Send", mock.Anything, mock.Anything, mock.Anything).Run(func(mock.Arguments) { cancel() }).Return("SM", nil)
		f.deliveries.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Send(reqCtx, tenantID, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, 2, resp.SentCount)
		require.Error(t, reqCtx.Err())

		require.Len(t, saves, 2)
		assert.Equal(t, marketing.CampaignStatusSending, saves[0].status)
		assert.Equal(t, marketing.CampaignStatusCompleted, saves[1].status)
		assert.NoError(t, saves[1].ctxErr, "final save must not see the cancelled request")
		f.deliveries.AssertNumberOfCalls(t, "SaveBatch", 2)
	})

	t.Run("already sent", func(t *testing.T) {
		f := setup(0)
		campaign := newCampaign(t, tenantID, "5550100001")
		require.NoError(t, campaign.Start())
		f.campaigns.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)

		_, err := f.svc.Send(ctx, tenantID, campaign.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCampaignService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := setup(0)
	campaign := newCampaign(t, tenantID, "5550100001")
	f.campaigns.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)
	f.campaigns.On("Save", ctx, campaign).Return(nil)

	name := "Winter clearance"
	resp, err := f.svc.Update(ctx, tenantID, campaign.ID, UpdateCampaignRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)
	assert.Equal(t, 1, resp.RecipientCount)

	phones := []string{"5550100007", "5550100008"}
	resp, err = f.svc.Update(ctx, tenantID, campaign.ID, UpdateCampaignRequest{Phones: &phones})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.RecipientCount)
}

func TestCampaignService_Delete_WhileSending(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := setup(0)
	campaign := newCampaign(t, tenantID, "5550100001")
	require.NoError(t, campaign.Start())
	f.campaigns.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)

	err := f.svc.Delete(ctx, tenantID, campaign.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.campaigns.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestCampaignService_ListDeliveries(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := setup(0)
	campaign := newCampaign(t, tenantID, "5550100001")
	delivery := marketing.NewDelivery(campaign, campaign.Recipients[0], "SM1", nil)

	f.campaigns.On("FindByIDForTenant", ctx, tenantID, campaign.ID).Return(campaign, nil)
	f.deliveries.On("FindByCampaign", ctx, tenantID, campaign.ID, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Filters["status"] == "sent"
	})).Return([]marketing.Delivery{*delivery}, nil)
	f.deliveries.On("CountByCampaign", ctx, tenantID, campaign.ID, mock.Anything).Return(int64(1), nil)

	list, total, err := f.svc.ListDeliveries(ctx, tenantID, campaign.ID, DeliveryListFilter{Status: "sent"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "SM1", list[0].ProviderID)
}
