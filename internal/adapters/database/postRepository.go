package database

import (
	"context"

	"xclone/internal/core/comment"
	"xclone/internal/core/follower"
	"xclone/internal/core/like"
	"xclone/internal/core/notification"
	"xclone/internal/core/post"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase implements PostRepository with gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := conn(ctx, repo.db).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	if err := conn(ctx, repo.db).Preload("User").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*post.Post, error) {
	if len(fields) > 0 {
		if err := conn(ctx, repo.db).Model(&post.Post{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return repo.FindByID(ctx, id)
}

func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, repo.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&like.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&comment.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&post.Retweet{}).Error; err != nil {
			return err
		}
		// notifications outlive the post but must not point at a missing row
		if err := tx.Model(&notification.Notification{}).
			Where("target_type = ? AND target_id = ?", notification.TargetPost, id).
			Updates(map[string]interface{}{"target_type": notification.TargetNone, "target_id": nil}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&post.Post{}).Error
	})
}

func (repo *PostRepositoryDatabase) ListAll(ctx context.Context) ([]*post.Post, error) {
	return repo.list(conn(ctx, repo.db))
}

func (repo *PostRepositoryDatabase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*post.Post, error) {
	return repo.list(conn(ctx, repo.db).Where("user_id = ?", userID))
}

// ListFeed is a single query; the OR over one column keeps each post once.
func (repo *PostRepositoryDatabase) ListFeed(ctx context.Context, viewerID uuid.UUID) ([]*post.Post, error) {
	db := conn(ctx, repo.db)
	following := db.Model(&follower.Follower{}).Select("user_id").Where("follower_id = ?", viewerID)
	return repo.list(db.Where("user_id = ? OR user_id IN (?)", viewerID, following))
}

func (repo *PostRepositoryDatabase) list(q *gorm.DB) ([]*post.Post, error) {
	var posts []*post.Post
	if err := q.Preload("User").Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

type postCount struct {
	PostID uuid.UUID
	Total  int64
}

// Stats computes counters for postIDs with one grouped query per relation.
func (repo *PostRepositoryDatabase) Stats(ctx context.Context, viewerID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]*post.Stats, error) {
	stats := make(map[uuid.UUID]*post.Stats, len(postIDs))
	for _, id := range postIDs {
		stats[id] = &post.Stats{}
	}
	if len(postIDs) == 0 {
		return stats, nil
	}
	db := conn(ctx, repo.db)

	count := func(model interface{}, set func(*post.Stats, int64)) error {
		var rows []postCount
		if err := db.Model(model).
			Select("post_id, COUNT(*) AS total").
			Where("post_id IN ?", postIDs).
			Group("post_id").
			Scan(&rows).Error; err != nil {
			return err
		}
		for _, r := range rows {
			if s, ok := stats[r.PostID]; ok {
				set(s, r.Total)
			}
		}
		return nil
	}
	if err := count(&like.Like{}, func(s *post.Stats, n int64) { s.Likes = n }); err != nil {
		return nil, err
	}
	if err := count(&comment.Comment{}, func(s *post.Stats, n int64) { s.Comments = n }); err != nil {
		return nil, err
	}
	if err := count(&post.Retweet{}, func(s *post.Stats, n int64) { s.Retweets = n }); err != nil {
		return nil, err
	}

	if viewerID == uuid.Nil {
		return stats, nil
	}
	var liked, retweeted []uuid.UUID
	if err := db.Model(&like.Like{}).Where("user_id = ? AND post_id IN ?", viewerID, postIDs).Pluck("post_id", &liked).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&post.Retweet{}).Where("user_id = ? AND post_id IN ?", viewerID, postIDs).Pluck("post_id", &retweeted).Error; err != nil {
		return nil, err
	}
	for _, id := range liked {
		if s, ok := stats[id]; ok {
			s.Liked = true
		}
	}
	for _, id := range retweeted {
		if s, ok := stats[id]; ok {
			s.Retweeted = true
		}
	}
	return stats, nil
}

// ToggleRetweet follows the same delete-then-insert shape as follow toggling.
func (repo *PostRepositoryDatabase) ToggleRetweet(ctx context.Context, userID, postID uuid.UUID) (bool, bool, error) {
	db := conn(ctx, repo.db)

	res := db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&post.Retweet{})
	if res.Error != nil {
		return false, false, translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, false, nil
	}

	rt := &post.Retweet{ID: uuid.Must(uuid.NewV4()), UserID: userID, PostID: postID}
	res = db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(rt)
	if res.Error != nil {
		return false, false, translate(res.Error)
	}
	return true, res.RowsAffected > 0, nil
}

func (repo *PostRepositoryDatabase) CountRetweets(ctx context.Context, postID uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, repo.db).Model(&post.Retweet{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
