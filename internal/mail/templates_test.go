package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() ContactData {
	return ContactData{
		SiteName:    "LoreyCode",
		Name:        "Jane <b>Doe</b>",
		Email:       "jane@example.com",
		Subject:     "Website redesign",
		Message:     "We would like a quote for a new website.",
		SubmittedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSummaryTruncates(t *testing.T) {
	d := sampleData()
	d.Message = strings.Repeat("a", 150)
	assert.Equal(t, d.Message, d.Summary())

	d.Message = strings.Repeat("é", 151)
	assert.Equal(t, strings.Repeat("é", 150)+"...", d.Summary())
}

func TestNotification(t *testing.T) {
	msg, err := Notification("owner@example.com", sampleData())
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "jane@example.com", msg.ReplyTo)
	assert.Equal(t, "New Contact Form Submission: Website redesign", msg.Subject)
	assert.Contains(t, msg.Text, "Name: Jane <b>Doe</b>")
	assert.NotContains(t, msg.Text, "Phone:")
	assert.Contains(t, msg.HTML, "Jane &lt;b&gt;Doe&lt;/b&gt;")
}

func TestAutoReply(t *testing.T) {
	msg, err := AutoReply(sampleData())
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", msg.To)
	assert.Contains(t, msg.Subject, "LoreyCode")
	assert.Contains(t, msg.Text, `"We would like a quote for a new website."`)
	assert.Contains(t, msg.Text, "LoreyCode")
}
