package mongo

import (
	"testing"
	"time"

	"github.com/orderly/orders-api/internal/core/domain"
)

func TestNewRequestDoc(t *testing.T) {
	occurred := time.Date(2024, 3, 10, 8, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	now := occurred.Add(time.Second)

	doc := newRequestDoc(&domain.RequestRecord{
		RequestID:  "req-1",
		Method:     "GET",
		Route:      "/orders/:id",
		URI:        "/orders/5",
		Status:     404,
		Latency:    1500 * time.Microsecond,
		UserID:     9,
		OccurredAt: occurred,
	}, now)

	if doc.LatencyMS != 1.5 {
		t.Fatalf("expected latency 1.5ms, got %v", doc.LatencyMS)
	}
	if doc.OccurredAt.Location() != time.UTC || doc.RecordedAt.Location() != time.UTC {
		t.Fatal("timestamps must be stored in UTC")
	}
	if doc.Route != "/orders/:id" || doc.UserID != 9 || doc.Status != 404 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
