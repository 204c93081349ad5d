package export

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/domain/tasks"
	"github.com/furnitureops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc       *Service
	customers *testutil.MockCustomerRepository
	orders    *testutil.MockOrderRepository
	invoices  *testutil.MockInvoiceRepository
	tasks     *testutil.MockTaskRepository
	tracking  *testutil.MockTrackingRepository
}

func setup() fixture {
	f := fixture{
		customers: new(testutil.MockCustomerRepository),
		orders:    new(testutil.MockOrderRepository),
		invoices:  new(testutil.MockInvoiceRepository),
		tasks:     new(testutil.MockTaskRepository),
		tracking:  new(testutil.MockTrackingRepository),
	}
	f.svc = NewService(f.customers, f.orders, f.invoices, f.tasks, f.tracking, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC) }
	return f
}

func TestService_Export_CustomersCSV(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := setup()

	customer, err := crm.NewCustomer(tenantID, "Rowe, Hart & Co", "orders@rowehart.example")
	require.NoError(t, err)
	f.customers.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Page == 1 && fl.Filters["status"] == "lead"
	})).Return([]crm.Customer{*customer}, nil)

	file, err := f.svc.Export(ctx, tenantID, Request{Resource: "customers", Format: "csv", Status: "lead"})
	require.NoError(t, err)
	assert.Equal(t, "customers-2026-05-04.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, 1, file.Rows)
	assert.False(t, file.Truncated)
	assert.True(t, strings.HasPrefix(string(file.Data), "name,email,phone"))
	assert.Contains(t, string(file.Data), `"Rowe, Hart & Co",orders@rowehart.example`)
}

func TestService_Export_PagesThroughTasks(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := setup()

	page := func(n int) []tasks.Task {
		out := make([]tasks.Task, n)
		for i := range out {
			task, err := tasks.NewTask(tenantID, fmt.Sprintf("Sand panel %d", i), "", tasks.TaskPriorityMedium)
			require.NoError(t, err)
			out[i] = *task
		}
		return out
	}
	f.tasks.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(fl shared.Filter) bool { return fl.Page == 1 })).Return(page(pageSize), nil)
	f.tasks.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(fl shared.Filter) bool { return fl.Page == 2 })).Return(page(3), nil)

	file, err := f.svc.Export(ctx, tenantID, Request{Resource: "tasks", Format: "html"})
	require.NoError(t, err)
	assert.Equal(t, pageSize+3, file.Rows)
	assert.Contains(t, string(file.Data), "<th>Assignee Id</th>")
	f.tasks.AssertNumberOfCalls(t, "FindAllForTenant", 2)
}

func TestService_Export_Errors(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := setup()

	_, err := f.svc.Export(ctx, tenantID, Request{Resource: "customers", Format: "pdf"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_FORMAT", domainErr.Code)

	_, err = f.svc.Export(ctx, tenantID, Request{Resource: "secrets", Format: "csv"})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_RESOURCE", domainErr.Code)
	f.customers.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
}
