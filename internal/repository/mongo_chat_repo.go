package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saeid-a/ChatAppBack/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoChat struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	User            string             `bson:"user"`
	Avatar          string             `bson:"avatar"`
	Unread          int                `bson:"unread"`
	LastMessage     *string            `bson:"lastMessage,omitempty"`
	LastMessageTime *time.Time         `bson:"lastMessageTime,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (c mongoChat) toModel() models.Chat {
	return models.Chat{
		ID:              c.ID.Hex(),
		Name:            c.Name,
		Email:           c.Email,
		User:            c.User,
		Avatar:          c.Avatar,
		Unread:          c.Unread,
		LastMessage:     c.LastMessage,
		LastMessageTime: c.LastMessageTime,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

type MongoChatRepository struct {
	chats *mongo.Collection
}

func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{chats: db.Collection("chats")}
}

func (r *MongoChatRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.chats.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create chats owner index: %w", err)
	}
	return nil
}

func (r *MongoChatRepository) CreateOrGet(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	now := time.Now().UTC()
	filter := bson.M{"user": chat.User, "email": chat.Email}
	update := bson.M{"$setOnInsert": bson.M{
		"name":      chat.Name,
		"email":     chat.Email,
		"user":      chat.User,
		"avatar":    chat.Avatar,
		"unread":    chat.Unread,
		"createdAt": now,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc mongoChat
	err := r.chats.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// lost an upsert race; the winner's document is now readable
		err = r.chats.FindOne(ctx, filter).Decode(&doc)
	}
	if err != nil {
		return nil, translateMongoError(err)
	}

	created := doc.toModel()
	return &created, nil
}

func (r *MongoChatRepository) ListByOwner(ctx context.Context, owner string) ([]models.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.chats.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoChat
	if err := cursor.All(ctx, &docs); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.Chat{}, nil
		}
		return nil, err
	}

	chats := make([]models.Chat, 0, len(docs))
	for _, doc := range docs {
		chats = append(chats, doc.toModel())
	}
	return chats, nil
}
