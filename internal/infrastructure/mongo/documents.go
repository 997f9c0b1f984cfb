package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionDocument は送信に失敗した問い合わせ内容の埋め込み構造を表す。
type SubmissionDocument struct {
	Name    string `bson:"name"`
	Email   string `bson:"email"`
	Phone   string `bson:"phone,omitempty"`
	Message string `bson:"message"`
}

// FailedDeliveryDocument は failed_deliveries コレクションのスキーマ。
type FailedDeliveryDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Submission SubmissionDocument `bson:"submission"`
	RemoteIP   string             `bson:"remoteIp,omitempty"`
	UserAgent  string             `bson:"userAgent,omitempty"`
	Error      string             `bson:"error"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
	ResolvedAt *time.Time         `bson:"resolvedAt,omitempty"`
}
