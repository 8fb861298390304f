package entity

import "time"

const (
	ActivityLike    = "like"
	ActivityComment = "comment"

	QuestionPending = "pending"

	MaxFeedPosts = 50
)

var DefaultCategories = []string{
	"General Farming",
	"Organic Farming",
	"Mechanized Farming",
	"Crop Management",
	"Livestock",
	"Market Insights",
}

type Post struct {
	ID           string    `json:"id" firestore:"-"`
	Title        string    `json:"title" firestore:"title"`
	Content      string    `json:"content" firestore:"content"`
	Category     string    `json:"category" firestore:"category"`
	AuthorID     string    `json:"author_id" firestore:"authorId"`
	AuthorName   string    `json:"author_name" firestore:"authorName"`
	Likes        int       `json:"likes" firestore:"likes"`
	CommentCount int       `json:"comment_count" firestore:"commentCount"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
}

type Comment struct {
	ID         string    `json:"id" firestore:"-"`
	PostID     string    `json:"post_id" firestore:"postId"`
	Content    string    `json:"content" firestore:"content"`
	AuthorID   string    `json:"author_id" firestore:"authorId"`
	AuthorName string    `json:"author_name" firestore:"authorName"`
	Likes      int       `json:"likes" firestore:"likes"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

type PostActivity struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	PostID    string    `json:"post_id" firestore:"postId"`
	Action    string    `json:"action" firestore:"action"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// LikeActivityID is the document id that makes a like unique per user.
func LikeActivityID(userID, postID string) string {
	return userID + "_" + postID + "_" + ActivityLike
}

type Category struct {
	ID    string `json:"id" firestore:"-"`
	Name  string `json:"name" firestore:"name"`
	Order int    `json:"order" firestore:"order"`
}

type ExpertQuestion struct {
	ID         string     `json:"id" firestore:"-"`
	Question   string     `json:"question" firestore:"question"`
	Category   string     `json:"category" firestore:"category"`
	AuthorID   string     `json:"author_id" firestore:"authorId"`
	AuthorName string     `json:"author_name" firestore:"authorName"`
	Status     string     `json:"status" firestore:"status"`
	Answer     *string    `json:"answer" firestore:"answer"`
	AnsweredAt *time.Time `json:"answered_at" firestore:"answeredAt"`
	CreatedAt  time.Time  `json:"created_at" firestore:"createdAt"`
}

type Announcement struct {
	ID        string    `json:"id" firestore:"-"`
	Title     string    `json:"title" firestore:"title"`
	Content   string    `json:"content" firestore:"content"`
	IsPinned  bool      `json:"is_pinned" firestore:"isPinned"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type MarketUpdate struct {
	ID        string    `json:"id" firestore:"-"`
	Title     string    `json:"title" firestore:"title"`
	Content   string    `json:"content" firestore:"content"`
	ExpiresAt time.Time `json:"expires_at" firestore:"expiresAt"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type CommunityStats struct {
	Members     int `json:"members" firestore:"members"`
	Posts       int `json:"posts" firestore:"posts"`
	Experts     int `json:"experts" firestore:"experts"`
	ActiveToday int `json:"active_today" firestore:"activeToday"`
}
