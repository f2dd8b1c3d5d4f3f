package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/email"
)

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Daily digest",
		BodyHTML: "<p>3 update(s)</p>",
		Tag:      "digest",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlFound, jsonFound bool
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlFound = true
			body, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			assert.Equal(t, "<p>3 update(s)</p>", string(body))
		case ".json":
			jsonFound = true
			meta, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			assert.Contains(t, string(meta), "user@example.com")
		}
		assert.True(t, strings.Contains(e.Name(), "digest"))
	}
	assert.True(t, htmlFound)
	assert.True(t, jsonFound)
}

func TestDevSender_RejectsInvalidParams(t *testing.T) {
	t.Parallel()

	sender := email.NewDevSender(t.TempDir())
	err := sender.SendEmail(context.Background(), email.SendEmailParams{})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}
