package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

const (
	postsCollection         = "posts"
	commentsCollection      = "comments"
	activityCollection      = "userPostsActivity"
	categoriesCollection    = "categories"
	questionsCollection     = "expertQuestions"
	announcementsCollection = "announcements"
	marketUpdatesCollection = "marketUpdates"
	statsCollection         = "communityStats"
)

type firestorePostRepository struct {
	client *firestore.Client
}

func NewFirestorePostRepository(client *firestore.Client) repository.PostRepository {
	return &firestorePostRepository{
		client: client,
	}
}

func decodePost(doc *firestore.DocumentSnapshot) (*entity.Post, error) {
	var post entity.Post
	if err := doc.DataTo(&post); err != nil {
		return nil, errors.Internal("Failed to parse post data", err)
	}
	post.ID = doc.Ref.ID
	return &post, nil
}

func (r *firestorePostRepository) Create(ctx context.Context, post *entity.Post) error {
	ref := r.client.Collection(postsCollection).NewDoc()
	if _, err := ref.Create(ctx, post); err != nil {
		return errors.FromFirestore(err, "Post", "create post")
	}
	post.ID = ref.ID
	return nil
}

func (r *firestorePostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	doc, err := r.client.Collection(postsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Post", "get post")
	}
	return decodePost(doc)
}

func (r *firestorePostRepository) recentQuery(limit int) firestore.Query {
	return r.client.Collection(postsCollection).OrderBy("createdAt", firestore.Desc).Limit(limit)
}

func (r *firestorePostRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Post, error) {
	docs, err := r.recentQuery(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.FromFirestore(err, "Post", "load posts")
	}
	return decodePosts(docs)
}

func decodePosts(docs []*firestore.DocumentSnapshot) ([]*entity.Post, error) {
	posts := make([]*entity.Post, 0, len(docs))
	for _, doc := range docs {
		post, err := decodePost(doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *firestorePostRepository) UpdateContent(ctx context.Context, id, content string) error {
	_, err := r.client.Collection(postsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "content", Value: content},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.FromFirestore(err, "Post", "update post")
	}
	return nil
}

func (r *firestorePostRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(postsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.FromFirestore(err, "Post", "delete post")
	}
	return nil
}

func (r *firestorePostRepository) Like(ctx context.Context, uid, postID string) (*entity.Post, error) {
	postRef := r.client.Collection(postsCollection).Doc(postID)
	likeRef := r.client.Collection(activityCollection).Doc(entity.LikeActivityID(uid, postID))

	var liked *entity.Post
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(likeRef)
		if err == nil {
			return errors.Conflict("You have already liked this post")
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		doc, err := tx.Get(postRef)
		if err != nil {
			return err
		}
		post, err := decodePost(doc)
		if err != nil {
			return err
		}

		if err := tx.Create(likeRef, &entity.PostActivity{
			UserID:    uid,
			PostID:    postID,
			Action:    entity.ActivityLike,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		post.Likes++
		liked = post
		return tx.Update(postRef, []firestore.Update{
			{Path: "likes", Value: firestore.Increment(1)},
		})
	})
	if err != nil {
		return nil, errors.FromFirestore(err, "Post", "like post")
	}
	return liked, nil
}

func (r *firestorePostRepository) AddComment(ctx context.Context, comment *entity.Comment) error {
	postRef := r.client.Collection(postsCollection).Doc(comment.PostID)
	commentRef := postRef.Collection(commentsCollection).NewDoc()
	activityRef := r.client.Collection(activityCollection).NewDoc()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(postRef); err != nil {
			return err
		}
		if err := tx.Create(commentRef, comment); err != nil {
			return err
		}
		if err := tx.Create(activityRef, &entity.PostActivity{
			UserID:    comment.AuthorID,
			PostID:    comment.PostID,
			Action:    entity.ActivityComment,
			CreatedAt: comment.CreatedAt,
		}); err != nil {
			return err
		}
		return tx.Update(postRef, []firestore.Update{
			{Path: "commentCount", Value: firestore.Increment(1)},
		})
	})
	if err != nil {
		return errors.FromFirestore(err, "Post", "add comment")
	}
	comment.ID = commentRef.ID
	return nil
}

func (r *firestorePostRepository) ListComments(ctx context.Context, postID string) ([]*entity.Comment, error) {
	iter := r.client.Collection(postsCollection).Doc(postID).Collection(commentsCollection).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	comments := []*entity.Comment{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Comment", "load comments")
		}

		var comment entity.Comment
		if err := doc.DataTo(&comment); err != nil {
			return nil, errors.Internal("Failed to parse comment data", err)
		}
		comment.ID = doc.Ref.ID
		comments = append(comments, &comment)
	}
	return comments, nil
}

func (r *firestorePostRepository) WatchRecent(ctx context.Context, limit int, fn func([]*entity.Post)) error {
	snaps := r.recentQuery(limit).Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return errors.FromFirestore(err, "Post", "watch posts")
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			return errors.FromFirestore(err, "Post", "watch posts")
		}
		posts, err := decodePosts(docs)
		if err != nil {
			continue
		}
		fn(posts)
	}
}

type firestoreCommunityRepository struct {
	client *firestore.Client
}

func NewFirestoreCommunityRepository(client *firestore.Client) repository.CommunityRepository {
	return &firestoreCommunityRepository{
		client: client,
	}
}

func (r *firestoreCommunityRepository) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	docs, err := r.client.Collection(categoriesCollection).OrderBy("order", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.FromFirestore(err, "Category", "load categories")
	}

	categories := make([]*entity.Category, 0, len(docs))
	for _, doc := range docs {
		var c entity.Category
		if err := doc.DataTo(&c); err != nil {
			return nil, errors.Internal("Failed to parse category data", err)
		}
		c.ID = doc.Ref.ID
		categories = append(categories, &c)
	}
	return categories, nil
}

func (r *firestoreCommunityRepository) CreateQuestion(ctx context.Context, q *entity.ExpertQuestion) error {
	ref := r.client.Collection(questionsCollection).NewDoc()
	if _, err := ref.Create(ctx, q); err != nil {
		return errors.FromFirestore(err, "Question", "submit question")
	}
	q.ID = ref.ID
	return nil
}

func (r *firestoreCommunityRepository) ListPinnedAnnouncements(ctx context.Context, limit int) ([]*entity.Announcement, error) {
	iter := r.client.Collection(announcementsCollection).
		Where("isPinned", "==", true).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	out := []*entity.Announcement{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Announcement", "load announcements")
		}

		var a entity.Announcement
		if err := doc.DataTo(&a); err != nil {
			return nil, errors.Internal("Failed to parse announcement data", err)
		}
		a.ID = doc.Ref.ID
		out = append(out, &a)
	}
	return out, nil
}

func (r *firestoreCommunityRepository) ListActiveMarketUpdates(ctx context.Context, now time.Time, limit int) ([]*entity.MarketUpdate, error) {
	iter := r.client.Collection(marketUpdatesCollection).
		Where("expiresAt", ">", now).
		OrderBy("expiresAt", firestore.Asc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	out := []*entity.MarketUpdate{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Market update", "load market updates")
		}

		var u entity.MarketUpdate
		if err := doc.DataTo(&u); err != nil {
			return nil, errors.Internal("Failed to parse market update data", err)
		}
		u.ID = doc.Ref.ID
		out = append(out, &u)
	}
	return out, nil
}

func (r *firestoreCommunityRepository) GetStats(ctx context.Context) (*entity.CommunityStats, error) {
	iter := r.client.Collection(statsCollection).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return &entity.CommunityStats{}, nil
	}
	if err != nil {
		return nil, errors.FromFirestore(err, "Community stats", "load community stats")
	}

	var stats entity.CommunityStats
	if err := doc.DataTo(&stats); err != nil {
		return nil, errors.Internal("Failed to parse community stats", err)
	}
	return &stats, nil
}
