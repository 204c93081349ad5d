package handler

import (
	"net/http"
	"testing"

	crmapp "github.com/furnitureops/backend/internal/application/crm"
	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/furnitureops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type customerFixture struct {
	tenantID   uuid.UUID
	userID     uuid.UUID
	customers  *testutil.MockCustomerRepository
	activities *testutil.MockActivityRepository
	handler    *CustomerHandler
}

func newCustomerFixture() *customerFixture {
	f := &customerFixture{
		tenantID:   testutil.SeededUUID("tenant"),
		userID:     testutil.SeededUUID("staff"),
		customers:  new(testutil.MockCustomerRepository),
		activities: new(testutil.MockActivityRepository),
	}
	svc := crmapp.NewCustomerService(f.customers, f.activities, nil, zap.NewNop())
	f.handler = NewCustomerHandler(svc)
	return f
}

func (f *customerFixture) signedIn(params ...string) func(*testing.T, *testutil.TestContext) {
	return func(_ *testing.T, tc *testutil.TestContext) {
		tc.SetTenantID(f.tenantID)
		tc.SetUserID(f.userID)
		for i := 0; i+1 < len(params); i += 2 {
			tc.SetParam(params[i], params[i+1])
		}
	}
}

func TestCustomerHandler_Create(t *testing.T) {
	f := newCustomerFixture()
	f.customers.On("ExistsByEmail", mock.Anything, f.tenantID, "hello@oakhouse.example").Return(false, nil)
	f.customers.On("ExistsByEmail", mock.Anything, f.tenantID, "taken@oakhouse.example").Return(true, nil)
	f.customers.On("Save", mock.Anything, mock.AnythingOfType("*crm.Customer")).Return(nil)

	testutil.RunHTTPTestCases(t, f.handler.Create, []testutil.HTTPTestCase{
		{
			Name:   "creates a lead",
			Method: http.MethodPost,
			Path:   "/customers",
			Body: map[string]any{
				"name":    "Oak House Studio",
				"email":   "hello@oakhouse.example",
				"company": "Oak House",
				"tags":    []string{"trade"},
			},
			Setup:          f.signedIn(),
			ExpectedStatus: http.StatusCreated,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				got := testutil.DecodeData[crmapp.CustomerResponse](t, tc)
				assert.Equal(t, "Oak House Studio", got.Name)
				assert.Equal(t, string(crm.CustomerStatusLead), got.Status)
				assert.Equal(t, f.tenantID, got.TenantID)
				assert.Equal(t, []string{"trade"}, got.Tags)
			},
		},
		{
			Name:           "name is required",
			Method:         http.MethodPost,
			Path:           "/customers",
			Body:           map[string]any{"email": "nobody@oakhouse.example"},
			Setup:          f.signedIn(),
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeValidation)
			},
		},
		{
			Name:           "malformed email",
			Method:         http.MethodPost,
			Path:           "/customers",
			Body:           map[string]any{"name": "Birch & Co", "email": "not-an-email"},
			Setup:          f.signedIn(),
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeValidation)
			},
		},
		{
			Name:           "duplicate email",
			Method:         http.MethodPost,
			Path:           "/customers",
			Body:           map[string]any{"name": "Second Oak", "email": "taken@oakhouse.example"},
			Setup:          f.signedIn(),
			ExpectedStatus: http.StatusConflict,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeAlreadyExists)
			},
		},
		{
			Name:           "anonymous caller",
			Method:         http.MethodPost,
			Path:           "/customers",
			Body:           map[string]any{"name": "Oak House Studio"},
			ExpectedStatus: http.StatusUnauthorized,
		},
	})
	f.customers.AssertNumberOfCalls(t, "Save", 1)
}

func TestCustomerHandler_GetByID(t *testing.T) {
	f := newCustomerFixture()
	customer, err := crm.NewCustomer(f.tenantID, "Willow Lane Hotel", "")
	require.NoError(t, err)
	missing := uuid.New()
	f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, customer.ID).Return(customer, nil)
	f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, missing).Return(nil, shared.ErrNotFound)

	testutil.RunHTTPTestCases(t, f.handler.GetByID, []testutil.HTTPTestCase{
		{
			Name:           "found",
			Setup:          f.signedIn("id", customer.ID.String()),
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				got := testutil.DecodeData[crmapp.CustomerResponse](t, tc)
				assert.Equal(t, customer.ID, got.ID)
				assert.Equal(t, "Willow Lane Hotel", got.Name)
			},
		},
		{
			Name:           "not found",
			Setup:          f.signedIn("id", missing.String()),
			ExpectedStatus: http.StatusNotFound,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeNotFound)
			},
		},
		{
			Name:           "malformed id",
			Setup:          f.signedIn("id", "chair-42"),
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeInvalidInput)
			},
		},
	})
}

func TestCustomerHandler_List(t *testing.T) {
	f := newCustomerFixture()
	a, err := crm.NewCustomer(f.tenantID, "Alder Rooms", "")
	require.NoError(t, err)
	b, err := crm.NewCustomer(f.tenantID, "Beech Street Cafe", "")
	require.NoError(t, err)

	activeOnly := mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Filters["status"] == "active" && fl.Page == 2 && fl.PageSize == 2
	})
	f.customers.On("FindAllForTenant", mock.Anything, f.tenantID, activeOnly).Return([]crm.Customer{*a, *b}, nil)
	f.customers.On("CountForTenant", mock.Anything, f.tenantID, activeOnly).Return(int64(5), nil)

	testutil.RunHTTPTestCases(t, f.handler.List, []testutil.HTTPTestCase{
		{
			Name:           "paged with meta",
			Path:           "/customers?status=active&page=2&page_size=2",
			Setup:          f.signedIn(),
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.DecodeResponse(t, tc)
				require.NotNil(t, resp.Meta)
				assert.Equal(t, int64(5), resp.Meta.Total)
				assert.Equal(t, 2, resp.Meta.Page)
				assert.Equal(t, 3, resp.Meta.TotalPages)
				assert.Len(t, testutil.DecodeData[[]crmapp.CustomerResponse](t, tc), 2)
			},
		},
		{
			Name:           "unknown status",
			Path:           "/customers?status=vip",
			Setup:          f.signedIn(),
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeValidation)
			},
		},
	})
	f.customers.AssertExpectations(t)
}

func TestCustomerHandler_LogActivity(t *testing.T) {
	f := newCustomerFixture()
	customer, err := crm.NewCustomer(f.tenantID, "Hazel Interiors", "")
	require.NoError(t, err)
	f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, customer.ID).Return(customer, nil)
	f.customers.On("Save", mock.Anything, customer).Return(nil)
	f.activities.On("Save", mock.Anything, mock.AnythingOfType("*crm.Activity")).Return(nil)

	testutil.RunHTTPTestCases(t, f.handler.LogActivity, []testutil.HTTPTestCase{
		{
			Name:           "records a showroom meeting",
			Method:         http.MethodPost,
			Body:           map[string]any{"type": "meeting", "subject": "Sofa fabric walkthrough"},
			Setup:          f.signedIn("id", customer.ID.String()),
			ExpectedStatus: http.StatusCreated,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				got := testutil.DecodeData[crmapp.ActivityResponse](t, tc)
				assert.Equal(t, customer.ID, got.CustomerID)
				assert.Equal(t, "meeting", got.Type)
				assert.NotNil(t, customer.LastContactAt)
			},
		},
		{
			Name:           "unknown activity type",
			Method:         http.MethodPost,
			Body:           map[string]any{"type": "fax", "subject": "Quote"},
			Setup:          f.signedIn("id", customer.ID.String()),
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeValidation)
			},
		},
	})
	f.activities.AssertNumberOfCalls(t, "Save", 1)
}
