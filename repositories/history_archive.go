package repositories

import (
	"context"
	"fmt"
	"time"

	"booking-api/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryArchive guarda una copia de cada notificación enviada para auditoría
type HistoryArchive interface {
	ArchiveEmail(ctx context.Context, history *domain.EmailHistory) error
	ArchiveSms(ctx context.Context, history *domain.SmsHistory) error
	Close(ctx context.Context) error
}

// archivedNotification es el documento guardado en Mongo
type archivedNotification struct {
	HistoryID    string    `bson:"_id"`
	Channel      string    `bson:"channel"`
	TemplateID   string    `bson:"template_id"`
	ReceiverID   string    `bson:"receiver_user_id"`
	Receiver     string    `bson:"receiver"`
	Sender       string    `bson:"sender"`
	Subject      string    `bson:"subject,omitempty"`
	Content      string    `bson:"content"`
	IsSuccessful bool      `bson:"is_successful"`
	ErrorMessage string    `bson:"error_message,omitempty"`
	ArchivedAt   time.Time `bson:"archived_at"`
}

type mongoHistoryArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoHistoryArchive conecta con Mongo y usa la colección notification_histories
func NewMongoHistoryArchive(ctx context.Context, uri, database string) (HistoryArchive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	collection := client.Database(database).Collection("notification_histories")
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "receiver_user_id", Value: 1}, {Key: "archived_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create archive index: %w", err)
	}

	return &mongoHistoryArchive{client: client, collection: collection}, nil
}

func (a *mongoHistoryArchive) ArchiveEmail(ctx context.Context, history *domain.EmailHistory) error {
	return a.insert(ctx, emailDocument(history))
}

func (a *mongoHistoryArchive) ArchiveSms(ctx context.Context, history *domain.SmsHistory) error {
	return a.insert(ctx, smsDocument(history))
}

func (a *mongoHistoryArchive) insert(ctx context.Context, doc archivedNotification) error {
	doc.ArchivedAt = time.Now().UTC()
	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to archive notification %s: %w", doc.HistoryID, err)
	}
	return nil
}

func (a *mongoHistoryArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

func emailDocument(history *domain.EmailHistory) archivedNotification {
	return archivedNotification{
		HistoryID:    history.ID.String(),
		Channel:      string(domain.NotificationTypeEmail),
		TemplateID:   history.TemplateID.String(),
		ReceiverID:   history.ReceiverUserID.String(),
		Receiver:     history.ReceiverEmailAddress,
		Sender:       history.SenderEmailAddress,
		Subject:      history.Subject,
		Content:      history.Content,
		IsSuccessful: history.IsSuccessful,
		ErrorMessage: history.ErrorMessage,
	}
}

func smsDocument(history *domain.SmsHistory) archivedNotification {
	return archivedNotification{
		HistoryID:    history.ID.String(),
		Channel:      string(domain.NotificationTypeSms),
		TemplateID:   history.TemplateID.String(),
		ReceiverID:   history.ReceiverUserID.String(),
		Receiver:     history.ReceiverPhoneNumber,
		Sender:       history.SenderPhoneNumber,
		Content:      history.Content,
		IsSuccessful: history.IsSuccessful,
		ErrorMessage: history.ErrorMessage,
	}
}

// noopHistoryArchive se usa cuando no hay Mongo configurado
type noopHistoryArchive struct{}

func NewNoopHistoryArchive() HistoryArchive {
	return noopHistoryArchive{}
}

func (noopHistoryArchive) ArchiveEmail(context.Context, *domain.EmailHistory) error {
	return nil
}

func (noopHistoryArchive) ArchiveSms(context.Context, *domain.SmsHistory) error {
	return nil
}

func (noopHistoryArchive) Close(context.Context) error {
	return nil
}
