package database

import (
	"context"
	"errors"

	"xclone/internal/core/chat"
	"xclone/internal/core/errs"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepositoryDatabase struct {
	db *gorm.DB
}

func NewChatRepositoryDatabase(db *gorm.DB) *ChatRepositoryDatabase {
	return &ChatRepositoryDatabase{db: db}
}

func (repo *ChatRepositoryDatabase) findConversation(ctx context.Context, query string, args ...interface{}) (*chat.Conversation, error) {
	return findConversationIn(conn(ctx, repo.db), query, args...)
}

func findConversationIn(db *gorm.DB, query string, args ...interface{}) (*chat.Conversation, error) {
	var c chat.Conversation
	if err := db.Preload("Participants.User").Where(query, args...).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// GetOrCreateConversation keys the conversation on the sorted participant pair.
// The pair_key unique index makes concurrent creators converge on one row.
func (repo *ChatRepositoryDatabase) GetOrCreateConversation(ctx context.Context, a, b uuid.UUID) (*chat.Conversation, bool, error) {
	key := chat.PairKey(a, b)

	c, err := repo.findConversation(ctx, "pair_key = ?", key)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, errs.ErrRecordNotFound) {
		return nil, false, err
	}

	return repo.createConversation(ctx, key, a, b)
}

// createConversation inserts the pair's conversation unless another writer got
// there first. The re-read is a locking read so it sees the winner's committed
// row even inside a REPEATABLE READ snapshot taken before the insert.
func (repo *ChatRepositoryDatabase) createConversation(ctx context.Context, key string, a, b uuid.UUID) (*chat.Conversation, bool, error) {
	created := false
	err := conn(ctx, repo.db).Transaction(func(tx *gorm.DB) error {
		conv := &chat.Conversation{ID: uuid.Must(uuid.NewV4()), PairKey: key}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(conv)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		participants := []chat.Participant{
			{ConversationID: conv.ID, UserID: a},
			{ConversationID: conv.ID, UserID: b},
		}
		return tx.Omit(clause.Associations).Create(&participants).Error
	})
	if err != nil {
		return nil, false, translate(err)
	}

	c, err := findConversationIn(conn(ctx, repo.db).Clauses(clause.Locking{Strength: clause.LockingStrengthShare}), "pair_key = ?", key)
	if err != nil {
		return nil, false, err
	}
	return c, created, nil
}

func (repo *ChatRepositoryDatabase) FindConversation(ctx context.Context, id uuid.UUID) (*chat.Conversation, error) {
	return repo.findConversation(ctx, "id = ?", id)
}

func (repo *ChatRepositoryDatabase) ListConversations(ctx context.Context, userID uuid.UUID) ([]*chat.Conversation, error) {
	db := conn(ctx, repo.db)
	mine := db.Model(&chat.Participant{}).Select("conversation_id").Where("user_id = ?", userID)

	var convs []*chat.Conversation
	if err := db.Preload("Participants.User").
		Where("id IN (?)", mine).
		Order("updated_at DESC").
		Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

type conversationCount struct {
	ConversationID uuid.UUID
	Total          int64
}

// Summaries loads the last message and the viewer's unread count per conversation.
func (repo *ChatRepositoryDatabase) Summaries(ctx context.Context, viewerID uuid.UUID, conversationIDs []uuid.UUID) (map[uuid.UUID]*chat.Summary, error) {
	out := make(map[uuid.UUID]*chat.Summary, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out, nil
	}
	db := conn(ctx, repo.db)

	for _, id := range conversationIDs {
		var last []*chat.Message
		if err := db.Preload("Sender").
			Where("conversation_id = ?", id).
			Order("created_at DESC").
			Limit(1).
			Find(&last).Error; err != nil {
			return nil, err
		}
		s := &chat.Summary{}
		if len(last) > 0 {
			s.LastMessage = last[0]
		}
		out[id] = s
	}

	var rows []conversationCount
	if err := db.Model(&chat.Message{}).
		Select("conversation_id, COUNT(*) AS total").
		Where("conversation_id IN ? AND sender_id <> ? AND is_read = ?", conversationIDs, viewerID, false).
		Group("conversation_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		if s, ok := out[r.ConversationID]; ok {
			s.Unread = r.Total
		}
	}
	return out, nil
}

func (repo *ChatRepositoryDatabase) CreateMessage(ctx context.Context, m *chat.Message) (*chat.Message, error) {
	db := conn(ctx, repo.db)
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Model(&chat.Conversation{}).Where("id = ?", m.ConversationID).Update("updated_at", m.CreatedAt).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns every message, deleted ones included, oldest first.
func (repo *ChatRepositoryDatabase) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*chat.Message, error) {
	var msgs []*chat.Message
	if err := conn(ctx, repo.db).Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (repo *ChatRepositoryDatabase) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	res := conn(ctx, repo.db).Model(&chat.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (repo *ChatRepositoryDatabase) FindMessage(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	var m chat.Message
	if err := conn(ctx, repo.db).Preload("Sender").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

var scrubbed = map[string]interface{}{"is_deleted": true, "content": ""}

func (repo *ChatRepositoryDatabase) SoftDeleteMessage(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	if err := conn(ctx, repo.db).Model(&chat.Message{}).Where("id = ?", id).Updates(scrubbed).Error; err != nil {
		return nil, err
	}
	return repo.FindMessage(ctx, id)
}

func (repo *ChatRepositoryDatabase) SoftDeleteConversation(ctx context.Context, conversationID uuid.UUID) (int64, error) {
	res := conn(ctx, repo.db).Model(&chat.Message{}).Where("conversation_id = ?", conversationID).Updates(scrubbed)
	return res.RowsAffected, res.Error
}
