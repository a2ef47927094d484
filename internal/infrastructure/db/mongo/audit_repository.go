package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

const collectionRequestLog = "request_log"

// requestDoc is the stored shape of a request record.
type requestDoc struct {
	RequestID  string    `bson:"request_id"`
	Method     string    `bson:"method"`
	Route      string    `bson:"route"`
	URI        string    `bson:"uri"`
	Status     int       `bson:"status"`
	LatencyMS  float64   `bson:"latency_ms"`
	UserID     int64     `bson:"user_id,omitempty"`
	RemoteIP   string    `bson:"remote_ip"`
	UserAgent  string    `bson:"user_agent,omitempty"`
	Error      string    `bson:"error,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func newRequestDoc(rec *domain.RequestRecord, now time.Time) requestDoc {
	return requestDoc{
		RequestID:  rec.RequestID,
		Method:     rec.Method,
		Route:      rec.Route,
		URI:        rec.URI,
		Status:     rec.Status,
		LatencyMS:  float64(rec.Latency.Microseconds()) / 1000,
		UserID:     rec.UserID,
		RemoteIP:   rec.RemoteIP,
		UserAgent:  rec.UserAgent,
		Error:      rec.Error,
		OccurredAt: rec.OccurredAt.UTC(),
		RecordedAt: now.UTC(),
	}
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates an AuditRepository on the request_log collection.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionRequestLog)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// InsertRequest appends rec to the request log.
func (r *AuditRepository) InsertRequest(ctx context.Context, rec *domain.RequestRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, newRequestDoc(rec, time.Now()))
	return err
}

// EnsureIndexes creates the indexes used to query the request log.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
