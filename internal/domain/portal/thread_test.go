package portal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageThread_Conversation(t *testing.T) {
	th, err := NewThread(uuid.New(), uuid.New(), "Fabric for the sofa", nil)
	require.NoError(t, err)

	_, err = th.PostMessage(SenderCustomer, th.CustomerID, "Can I see the linen swatches?", nil)
	require.NoError(t, err)
	_, err = th.PostMessage(SenderCustomer, th.CustomerID, "Also the wool ones", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, th.UnreadByStaff)
	assert.Equal(t, 0, th.UnreadByCustomer)

	msg, err := th.PostMessage(SenderStaff, uuid.New(), "Sending them today", []string{"swatches.pdf"})
	require.NoError(t, err)
	assert.Equal(t, th.ID, msg.ThreadID)
	assert.Equal(t, 1, th.UnreadByCustomer)

	require.NoError(t, th.MarkRead(SenderStaff))
	assert.Equal(t, 0, th.UnreadByStaff)
	assert.Equal(t, 1, th.UnreadByCustomer)

	assert.Len(t, th.GetDomainEvents(), 3)
}

func TestMessageThread_Validation(t *testing.T) {
	_, err := NewThread(uuid.New(), uuid.Nil, "Hello", nil)
	assert.Error(t, err)
	_, err = NewThread(uuid.New(), uuid.New(), " ", nil)
	assert.Error(t, err)

	th, err := NewThread(uuid.New(), uuid.New(), "Hello", nil)
	require.NoError(t, err)
	_, err = th.PostMessage(SenderStaff, uuid.New(), "   ", nil)
	assert.Error(t, err)
	_, err = th.PostMessage("bot", uuid.New(), "hi", nil)
	assert.Error(t, err)
	assert.Error(t, th.MarkRead("bot"))
}

func TestMessageThread_PostReopens(t *testing.T) {
	th, err := NewThread(uuid.New(), uuid.New(), "Delivery date", nil)
	require.NoError(t, err)
	th.Close()
	assert.Equal(t, ThreadStatusClosed, th.Status)

	_, err = th.PostMessage(SenderCustomer, th.CustomerID, "One more question", nil)
	require.NoError(t, err)
	assert.Equal(t, ThreadStatusOpen, th.Status)
}
