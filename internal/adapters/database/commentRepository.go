package database

import (
	"context"

	"xclone/internal/core/comment"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := conn(ctx, repo.db).Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	var c comment.Comment
	if err := conn(ctx, repo.db).Preload("User").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (repo *CommentRepositoryDatabase) ListByPost(ctx context.Context, postID uuid.UUID) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := conn(ctx, repo.db).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (repo *CommentRepositoryDatabase) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*comment.Comment, error) {
	if err := conn(ctx, repo.db).Model(&comment.Comment{}).Where("id = ?", id).Update("content", content).Error; err != nil {
		return nil, translate(err)
	}
	return repo.FindByID(ctx, id)
}

func (repo *CommentRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, repo.db).Where("id = ?", id).Delete(&comment.Comment{}).Error
}
