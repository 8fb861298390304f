package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

const usersCollection = "users"

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.client.Collection(usersCollection).Doc(user.UID).Set(ctx, user)
	if err != nil {
		return errors.FromFirestore(err, "User", "create user")
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, uid string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "User", "get user")
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	if user.UID == "" {
		user.UID = doc.Ref.ID
	}
	return &user, nil
}

// GetByIDs returns the profiles that exist, in the order of uids.
func (r *firestoreUserRepository) GetByIDs(ctx context.Context, uids []string) ([]*entity.User, error) {
	if len(uids) == 0 {
		return []*entity.User{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(uids))
	for _, uid := range uids {
		refs = append(refs, r.client.Collection(usersCollection).Doc(uid))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.FromFirestore(err, "User", "get users")
	}

	users := make([]*entity.User, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errors.Internal("Failed to parse user data", err)
		}
		if user.UID == "" {
			user.UID = doc.Ref.ID
		}
		users = append(users, &user)
	}
	return users, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, uid string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updatedAt"] = time.Now()

	_, err := r.client.Collection(usersCollection).Doc(uid).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return errors.FromFirestore(err, "User", "update user")
	}
	return nil
}

func (r *firestoreUserRepository) List(ctx context.Context, afterUID string, limit int) ([]*entity.User, error) {
	query := r.client.Collection(usersCollection).OrderBy(firestore.DocumentID, firestore.Asc)
	if afterUID != "" {
		query = query.StartAfter(afterUID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var users []*entity.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "User", "list users")
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errors.Internal("Failed to parse user data", err)
		}
		if user.UID == "" {
			user.UID = doc.Ref.ID
		}
		users = append(users, &user)
	}
	return users, nil
}

func (r *firestoreUserRepository) SetRecentlyViewed(ctx context.Context, uid string, ids []string) error {
	_, err := r.client.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "recentlyViewed", Value: ids},
	})
	if err != nil {
		return errors.FromFirestore(err, "User", "update recently viewed")
	}
	return nil
}
