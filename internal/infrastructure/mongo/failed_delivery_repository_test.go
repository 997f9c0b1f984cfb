package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

func TestFailedDeliveryDocumentRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	in := &domain.FailedDelivery{
		Submission: domain.Submission{Name: "Anna Muster", Email: "anna@example.de", Message: "Bitte um Rückruf"},
		RemoteIP:   "203.0.113.7",
		UserAgent:  "Mozilla/5.0",
		Error:      "smtp send: connection refused",
		Status:     domain.DeliveryPending,
		CreatedAt:  created,
	}

	doc := toFailedDeliveryDocument(in)
	doc.ID = primitive.NewObjectID()

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded FailedDeliveryDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	out := mapFailedDeliveryDocument(decoded)
	assert.Equal(t, doc.ID.Hex(), out.ID)
	assert.Equal(t, in.Submission, out.Submission)
	assert.Equal(t, in.Error, out.Error)
	assert.Equal(t, domain.DeliveryPending, out.Status)
	assert.True(t, created.Equal(out.CreatedAt))
	assert.Nil(t, out.ResolvedAt)
}

func TestMapFailedDeliveryFallsBackToPending(t *testing.T) {
	out := mapFailedDeliveryDocument(FailedDeliveryDocument{ID: primitive.NewObjectID(), Status: "archived"})
	assert.Equal(t, domain.DeliveryPending, out.Status)
}

func TestBuildDeliveryFilter(t *testing.T) {
	assert.Empty(t, buildDeliveryFilter(application.DeliveryFilter{}))
	assert.Equal(t, bson.M{"status": "resolved"}, buildDeliveryFilter(application.DeliveryFilter{Status: domain.DeliveryResolved}))
}

func TestDeliverySkip(t *testing.T) {
	assert.Equal(t, int64(0), deliverySkip(application.Paging{Page: 1, Limit: 50}))
	assert.Equal(t, int64(40), deliverySkip(application.Paging{Page: 3, Limit: 20}))
	assert.Equal(t, int64(0), deliverySkip(application.Paging{Page: 3}))
}

func TestBuildStatusUpdate(t *testing.T) {
	at := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	resolved := buildStatusUpdate(domain.DeliveryResolved, at)
	assert.Equal(t, bson.M{"status": "resolved", "resolvedAt": at}, resolved["$set"])
	assert.NotContains(t, resolved, "$unset")

	pending := buildStatusUpdate(domain.DeliveryPending, at)
	assert.Equal(t, bson.M{"status": "pending"}, pending["$set"])
	assert.Equal(t, bson.M{"resolvedAt": ""}, pending["$unset"])
}
