package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

func TestGenerateDeliveries(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	deliveries := generateDeliveries(rand.New(rand.NewSource(1)), 10, 3, now)

	require.Len(t, deliveries, 10)
	assert.Equal(t, 3, countResolved(deliveries))
	for i, d := range deliveries {
		result := domain.Validate(domain.RawSubmission{
			Name:    &d.Submission.Name,
			Email:   &d.Submission.Email,
			Message: &d.Submission.Message,
		}, domain.LanguageGerman)
		assert.True(t, result.Valid(), d.Submission.Email)
		assert.False(t, d.CreatedAt.After(now))
		if i > 0 {
			assert.True(t, d.CreatedAt.Before(deliveries[i-1].CreatedAt))
		}
	}
	assert.Equal(t, domain.DeliveryPending, deliveries[0].Status)
	assert.Equal(t, domain.DeliveryResolved, deliveries[9].Status)
}

func TestMailboxFor(t *testing.T) {
	assert.Equal(t, "bernd.koehler@example.de", mailboxFor("Bernd Köhler"))
	assert.Equal(t, "clara.weiss@example.de", mailboxFor("Clara Weiß"))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nexport MONGO_DB=\"seedtest\"\nbroken\n"), 0o644))
	t.Setenv("MONGO_DB", "")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "seedtest", os.Getenv("MONGO_DB"))
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
