package libs

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mrjawadhere/Hackthon-Smit/database"
	"github.com/mrjawadhere/Hackthon-Smit/model"
)

// ChatLog is the append-only conversation log. Entries are grouped by
// thread id and only ever read back in timestamp order.
type ChatLog struct {
	col *mongo.Collection
}

func NewChatLog(db *mongo.Database) *ChatLog {
	return &ChatLog{col: db.Collection(database.ChatsCollection)}
}

func (l *ChatLog) Append(ctx context.Context, threadID, role, content string) (*model.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := &model.ChatMessage{
		ID:        bson.NewObjectID(),
		ThreadID:  threadID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if _, err := l.col.InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("append chat message: %w", err)
	}
	return msg, nil
}

// LastN returns up to n most recent messages for the thread, oldest first.
func (l *ChatLog) LastN(ctx context.Context, threadID string, n int) ([]model.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(n))

	cursor, err := l.col.Find(ctx, bson.M{"thread_id": threadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch chat history: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []model.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}

	// reverse newest-first into oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// History returns the full thread, oldest first.
func (l *ChatLog) History(ctx context.Context, threadID string) ([]model.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := l.col.Find(ctx, bson.M{"thread_id": threadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch full history: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []model.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode full history: %w", err)
	}
	return messages, nil
}
