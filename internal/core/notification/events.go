package notification

import (
	"xclone/internal/core/chat"
	"xclone/internal/core/comment"
	"xclone/internal/core/post"
	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
)

// Event is a committed-write fact that may notify someone. Notifications
// returns nothing for self-directed actions.
type Event interface {
	Notifications() []*Notification
}

// LikeCreated fires when a like row is inserted, never when it is removed.
type LikeCreated struct {
	Liker *user.User
	Post  *post.Post
}

func (e LikeCreated) Notifications() []*Notification {
	if e.Liker.ID == e.Post.UserID {
		return nil
	}
	return []*Notification{newNotification(KindLike, e.Post.UserID, e.Liker.ID,
		PostTarget(e.Post.ID), e.Liker.Username+" liked your post")}
}

type CommentCreated struct {
	Commenter *user.User
	Comment   *comment.Comment
	Post      *post.Post
}

func (e CommentCreated) Notifications() []*Notification {
	if e.Commenter.ID == e.Post.UserID {
		return nil
	}
	return []*Notification{newNotification(KindComment, e.Post.UserID, e.Commenter.ID,
		PostTarget(e.Post.ID), e.Commenter.Username+" commented: "+truncate(e.Comment.Content, SnippetLength))}
}

// FollowAdded fires when a follow edge is inserted. Unfollowing has no event.
type FollowAdded struct {
	Follower *user.User
	Followee *user.User
}

func (e FollowAdded) Notifications() []*Notification {
	if e.Follower.ID == e.Followee.ID {
		return nil
	}
	return []*Notification{newNotification(KindFollow, e.Followee.ID, e.Follower.ID,
		NoTarget(), e.Follower.Username+" started following you")}
}

type MessageCreated struct {
	Sender      *user.User
	RecipientID uuid.UUID
	Message     *chat.Message
}

func (e MessageCreated) Notifications() []*Notification {
	if e.Sender.ID == e.RecipientID {
		return nil
	}
	return []*Notification{newNotification(KindMessage, e.RecipientID, e.Sender.ID,
		MessageTarget(e.Message.ID), e.Sender.Username+" sent you a message")}
}

// MentionedInPost fires once per new post that names other users with @username.
type MentionedInPost struct {
	Author    *user.User
	Post      *post.Post
	Mentioned []*user.User
}

func (e MentionedInPost) Notifications() []*Notification {
	var out []*Notification
	seen := make(map[uuid.UUID]bool)
	for _, u := range e.Mentioned {
		if u.ID == e.Author.ID || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		out = append(out, newNotification(KindMention, u.ID, e.Author.ID,
			PostTarget(e.Post.ID), e.Author.Username+" mentioned you in a post"))
	}
	return out
}
