package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/logger"
	"github.com/furnitureops/backend/internal/infrastructure/printing"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteEvent struct {
	shared.BaseDomainEvent
}

func TestTestContext_Setters(t *testing.T) {
	tc := NewTestContext(nil)
	tenantID := SeededUUID("tenant")
	userID := SeededUUID("user")

	tc.SetTenantID(tenantID)
	tc.SetUserID(userID)
	tc.SetRequestID("req-7")
	tc.SetParam("id", "42")

	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
	assert.Equal(t, tenantID.String(), tc.Context.GetString(logger.GinTenantIDKey))
	assert.Equal(t, userID.String(), tc.Context.GetString(logger.GinUserIDKey))
	assert.Equal(t, "req-7", tc.Context.GetString(logger.GinRequestIDKey))
	assert.Equal(t, "42", tc.Context.Param("id"))
}

func TestSeededUUID(t *testing.T) {
	assert.Equal(t, SeededUUID("oak"), SeededUUID("oak"))
	assert.NotEqual(t, SeededUUID("oak"), SeededUUID("walnut"))
	assert.NotEqual(t, uuid.Nil, SeededUUID(""))
}

func TestRunHTTPTestCases(t *testing.T) {
	echo := func(c *gin.Context) {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
			c.JSON(http.StatusBadRequest, dto.Fail(dto.ErrCodeValidation, "name is required"))
			return
		}
		c.JSON(http.StatusCreated, dto.OK(gin.H{"name": body.Name, "tenant": c.GetString(logger.GinTenantIDKey)}))
	}
	tenantID := SeededUUID("tenant")

	RunHTTPTestCases(t, echo, []HTTPTestCase{
		{
			Name:           "decodes data",
			Method:         http.MethodPost,
			Body:           map[string]string{"name": "Ash sideboard"},
			Setup:          func(_ *testing.T, tc *TestContext) { tc.SetTenantID(tenantID) },
			ExpectedStatus: http.StatusCreated,
			Validate: func(t *testing.T, tc *TestContext) {
				data := DecodeData[map[string]string](t, tc)
				assert.Equal(t, "Ash sideboard", data["name"])
				assert.Equal(t, tenantID.String(), data["tenant"])
			},
		},
		{
			Name:           "error envelope",
			Method:         http.MethodPost,
			Body:           map[string]string{},
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *TestContext) {
				AssertErrorResponse(t, tc, dto.ErrCodeValidation)
				assert.Equal(t, "name is required", DecodeResponse(t, tc).Error.Message)
			},
		},
	})
}

func TestMockDB_Exec(t *testing.T) {
	m := NewMockDB(t)
	m.Mock.ExpectExec(`UPDATE "jobs" SET "state"`).
		WithArgs("done").
		WillReturnResult(sqlmock.NewResult(0, 1))

	res := m.DB.Exec(`UPDATE "jobs" SET "state" = ?`, "done")
	require.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected)
}

func TestFakePDFRenderer(t *testing.T) {
	r := &FakePDFRenderer{}
	pdf, err := r.Render(context.Background(), printing.Document{HTML: "<h1>INV-0001</h1>"})
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4 && string(pdf[:4]) == "%PDF")
	assert.Equal(t, "<h1>INV-0001</h1>", r.Last.HTML)

	r.Err = errors.New("chrome gone")
	_, err = r.Render(context.Background(), printing.Document{})
	assert.EqualError(t, err, "chrome gone")
}

func TestRecordingPublisher(t *testing.T) {
	p := &RecordingPublisher{}
	ev := &noteEvent{BaseDomainEvent: shared.NewBaseDomainEvent("crm.note.added", "Customer", uuid.New(), uuid.New())}

	require.NoError(t, p.Publish(context.Background(), ev, ev))
	assert.Len(t, p.Events(), 2)
	assert.Equal(t, []string{"crm.note.added", "crm.note.added"}, p.Types())
}
