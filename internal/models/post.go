package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like records that a user liked a post. At most one like per user per post.
type Like struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User primitive.ObjectID `bson:"user" json:"user"`
}

// Comment is an embedded sub-record inside Post. Name and Avatar are copied
// from the author at creation time and never refreshed.
type Comment struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User   primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
	Date   time.Time          `bson:"date" json:"date"`
}

// Post is owned by one user. Name and Avatar are a snapshot of the author at
// creation time. Likes and comments are kept most-recent-first; mutations
// replace the whole document, guarded by Version.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Text     string             `bson:"text" json:"text"`
	Name     string             `bson:"name" json:"name"`
	Avatar   string             `bson:"avatar" json:"avatar"`
	Likes    []Like             `bson:"likes" json:"likes"`
	Comments []Comment          `bson:"comments" json:"comments"`
	Version  int64              `bson:"version" json:"-"`
	Date     time.Time          `bson:"date" json:"date"`
}

// LikedBy reports whether the given user already liked the post.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, like := range p.Likes {
		if like.User == userID {
			return true
		}
	}
	return false
}

// AddLike adds a like at the head of the list. It reports false without
// mutating when the user already liked the post.
func (p *Post) AddLike(userID primitive.ObjectID) bool {
	if p.LikedBy(userID) {
		return false
	}
	p.Likes = append([]Like{{ID: primitive.NewObjectID(), User: userID}}, p.Likes...)
	return true
}

// RemoveLike removes the given user's like. It reports false when the user
// had not liked the post.
func (p *Post) RemoveLike(userID primitive.ObjectID) bool {
	for i, like := range p.Likes {
		if like.User == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// AddComment inserts at the head so the newest comment comes first.
func (p *Post) AddComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

// FindComment looks up a comment by its id.
func (p *Post) FindComment(id primitive.ObjectID) (Comment, bool) {
	for _, c := range p.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

// RemoveComment removes the comment with the given id. It reports whether a
// comment was found; an unknown id removes nothing.
func (p *Post) RemoveComment(id primitive.ObjectID) bool {
	for i, c := range p.Comments {
		if c.ID == id {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}
