package marketing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMSCampaign_Recipients(t *testing.T) {
	c, err := NewSMSCampaign(uuid.New(), "Spring sale", "20% off oak tables", []Recipient{
		{Phone: "+1 (555) 010-0001"},
		{Phone: "+15550100001"},
		{Phone: "555-0102 999"},
		{Phone: "12"},
	})
	require.NoError(t, err)
	require.Len(t, c.Recipients, 2)
	assert.Equal(t, "+15550100001", c.Recipients[0].Phone)
	assert.Equal(t, "5550102999", c.Recipients[1].Phone)
}

func TestNewSMSCampaign_Validation(t *testing.T) {
	_, err := NewSMSCampaign(uuid.New(), "", "hi", nil)
	assert.Error(t, err)
	_, err = NewSMSCampaign(uuid.New(), "Name", " ", nil)
	assert.Error(t, err)
}

func TestSMSCampaign_Lifecycle(t *testing.T) {
	c, err := NewSMSCampaign(uuid.New(), "Spring sale", "hi", nil)
	require.NoError(t, err)
	assert.Error(t, c.Start(), "no recipients")

	require.NoError(t, c.Update("Spring sale", "hi", []Recipient{{Phone: "5550100001"}}))
	require.NoError(t, c.Start())
	assert.Equal(t, CampaignStatusSending, c.Status)
	assert.Error(t, c.Update("x", "y", nil))
	assert.Error(t, c.Start())

	c.Finish(0, 1)
	assert.Equal(t, CampaignStatusFailed, c.Status)
}

func TestSMSCampaign_Chunks(t *testing.T) {
	var recipients []Recipient
	for i := 0; i < 7; i++ {
		recipients = append(recipients, Recipient{Phone: "555010000" + string(rune('0'+i))})
	}
	c, err := NewSMSCampaign(uuid.New(), "n", "m", recipients)
	require.NoError(t, err)

	chunks := c.Chunks(3)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[2], 1)
	assert.Len(t, c.Chunks(0), 1)
}

func TestNewDelivery(t *testing.T) {
	c, err := NewSMSCampaign(uuid.New(), "n", "m", []Recipient{{Phone: "5550100001"}})
	require.NoError(t, err)

	ok := NewDelivery(c, c.Recipients[0], "SM123", nil)
	assert.Equal(t, DeliverySent, ok.Status)

	failed := NewDelivery(c, c.Recipients[0], "", errors.New("invalid number"))
	assert.Equal(t, DeliveryFailed, failed.Status)
	assert.Equal(t, "invalid number", failed.Error)
}
