package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

// FailedDeliveryRepository は SMTP 送信に失敗した問い合わせを MongoDB に保存・参照する。
type FailedDeliveryRepository struct {
	collection *mongo.Collection
}

var _ application.FailedDeliveryRepository = (*FailedDeliveryRepository)(nil)

// NewFailedDeliveryRepository は指定コレクションに束縛したリポジトリを生成する。
func NewFailedDeliveryRepository(db *mongo.Database, collection string) *FailedDeliveryRepository {
	return &FailedDeliveryRepository{collection: db.Collection(collection)}
}

// EnsureIndexes は管理画面の一覧クエリ (status + createdAt 降順) 用のインデックスを作成する。
func (r *FailedDeliveryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_failed_delivery_status_created"),
	})
	return err
}

// Drop はコレクションごと削除する。Seed 用。
func (r *FailedDeliveryRepository) Drop(ctx context.Context) error {
	return r.collection.Drop(ctx)
}

// Record は失敗記録を新規登録し、採番した ID をエンティティへ書き戻す。
func (r *FailedDeliveryRepository) Record(ctx context.Context, delivery *domain.FailedDelivery) error {
	if delivery == nil {
		return errors.New("failed delivery payload is nil")
	}
	doc := toFailedDeliveryDocument(delivery)
	doc.ID = primitive.NewObjectID()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = string(domain.DeliveryPending)
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	delivery.ID = doc.ID.Hex()
	delivery.CreatedAt = doc.CreatedAt
	delivery.Status = domain.DeliveryStatus(doc.Status)
	return nil
}

// Find はステータス条件で絞り込み、新しい順にページングして返す。
func (r *FailedDeliveryRepository) Find(ctx context.Context, filter application.DeliveryFilter, paging application.Paging) ([]domain.FailedDelivery, error) {
	mongoFilter := buildDeliveryFilter(filter)

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		if skip := deliverySkip(paging); skip > 0 {
			findOpts.SetSkip(skip)
		}
	}

	cursor, err := r.collection.Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	deliveries := make([]domain.FailedDelivery, 0)
	for cursor.Next(ctx) {
		var doc FailedDeliveryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, mapFailedDeliveryDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindByID は 16 進 ID を ObjectID 化して単一の失敗記録を返す。
func (r *FailedDeliveryRepository) FindByID(ctx context.Context, id string) (*domain.FailedDelivery, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var doc FailedDeliveryDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	delivery := mapFailedDeliveryDocument(doc)
	return &delivery, nil
}

// UpdateStatus はステータスを書き換え、更新後のドキュメントを返す。
// resolved へ遷移したときのみ resolvedAt を記録し、pending に戻すと消去する。
func (r *FailedDeliveryRepository) UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus, at time.Time) (*domain.FailedDelivery, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	update := buildStatusUpdate(status, at)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc FailedDeliveryDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	delivery := mapFailedDeliveryDocument(doc)
	return &delivery, nil
}

func buildDeliveryFilter(filter application.DeliveryFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}
	return mongoFilter
}

func deliverySkip(paging application.Paging) int64 {
	if paging.Limit <= 0 || paging.Page <= 1 {
		return 0
	}
	return int64((paging.Page - 1) * paging.Limit)
}

func buildStatusUpdate(status domain.DeliveryStatus, at time.Time) bson.M {
	if status == domain.DeliveryResolved {
		return bson.M{"$set": bson.M{"status": string(status), "resolvedAt": at}}
	}
	return bson.M{
		"$set":   bson.M{"status": string(status)},
		"$unset": bson.M{"resolvedAt": ""},
	}
}

func toFailedDeliveryDocument(delivery *domain.FailedDelivery) FailedDeliveryDocument {
	return FailedDeliveryDocument{
		Submission: SubmissionDocument{
			Name:    delivery.Submission.Name,
			Email:   delivery.Submission.Email,
			Phone:   delivery.Submission.Phone,
			Message: delivery.Submission.Message,
		},
		RemoteIP:   delivery.RemoteIP,
		UserAgent:  delivery.UserAgent,
		Error:      delivery.Error,
		Status:     string(delivery.Status),
		CreatedAt:  delivery.CreatedAt,
		ResolvedAt: delivery.ResolvedAt,
	}
}

// mapFailedDeliveryDocument は Mongo ドキュメントをドメインの失敗記録へ変換する。
func mapFailedDeliveryDocument(doc FailedDeliveryDocument) domain.FailedDelivery {
	status, err := domain.ParseDeliveryStatus(doc.Status)
	if err != nil {
		status = domain.DeliveryPending
	}
	return domain.FailedDelivery{
		ID: doc.ID.Hex(),
		Submission: domain.Submission{
			Name:    doc.Submission.Name,
			Email:   doc.Submission.Email,
			Phone:   doc.Submission.Phone,
			Message: doc.Submission.Message,
		},
		RemoteIP:   doc.RemoteIP,
		UserAgent:  doc.UserAgent,
		Error:      doc.Error,
		Status:     status,
		CreatedAt:  doc.CreatedAt,
		ResolvedAt: doc.ResolvedAt,
	}
}
