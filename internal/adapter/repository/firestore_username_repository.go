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

const usernamesCollection = "usernames"

type firestoreUsernameRepository struct {
	client *firestore.Client
}

func NewFirestoreUsernameRepository(client *firestore.Client) repository.UsernameRepository {
	return &firestoreUsernameRepository{
		client: client,
	}
}

func (r *firestoreUsernameRepository) Get(ctx context.Context, uid string) (*entity.UsernameRecord, error) {
	doc, err := r.client.Collection(usernamesCollection).Doc(uid).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Username", "get username")
	}

	var record entity.UsernameRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, errors.Internal("Failed to parse username data", err)
	}
	return &record, nil
}

func (r *firestoreUsernameRepository) FindByUID(ctx context.Context, uid string) (*entity.UsernameRecord, error) {
	iter := r.client.Collection(usernamesCollection).Where("uid", "==", uid).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Username", nil)
	}
	if err != nil {
		return nil, errors.FromFirestore(err, "Username", "find username")
	}

	var record entity.UsernameRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, errors.Internal("Failed to parse username data", err)
	}
	return &record, nil
}

func (r *firestoreUsernameRepository) GetMany(ctx context.Context, uids []string) (map[string]string, error) {
	out := make(map[string]string, len(uids))
	if len(uids) == 0 {
		return out, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(uids))
	for _, uid := range uids {
		refs = append(refs, r.client.Collection(usernamesCollection).Doc(uid))
	}
	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.FromFirestore(err, "Username", "get usernames")
	}

	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var record entity.UsernameRecord
		if err := doc.DataTo(&record); err != nil {
			continue
		}
		if record.Username != "" {
			out[doc.Ref.ID] = record.Username
		}
	}
	return out, nil
}

func (r *firestoreUsernameRepository) IsTaken(ctx context.Context, username string) (bool, error) {
	iter := r.client.Collection(usernamesCollection).Where("username", "==", username).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, errors.FromFirestore(err, "Username", "check username")
	}
	return true, nil
}

func (r *firestoreUsernameRepository) Reserve(ctx context.Context, record *entity.UsernameRecord) error {
	lookup := r.client.Collection(usernamesCollection)
	taken := lookup.Where("username", "==", record.Username).Limit(1)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(taken).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if doc.Ref.ID != record.UID {
				return errors.Conflict("Username already taken")
			}
		}
		return tx.Set(lookup.Doc(record.UID), record)
	})
	if err != nil {
		return errors.FromFirestore(err, "Username", "save username")
	}
	return nil
}

func (r *firestoreUsernameRepository) Change(ctx context.Context, uid, username string) error {
	lookup := r.client.Collection(usernamesCollection)
	taken := lookup.Where("username", "==", username).Limit(1)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(taken).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if doc.Ref.ID != uid {
				return errors.Conflict("Username already taken")
			}
		}

		now := time.Now()
		if err := tx.Set(lookup.Doc(uid), &entity.UsernameRecord{
			UID:       uid,
			Username:  username,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return tx.Set(r.client.Collection(usersCollection).Doc(uid), map[string]interface{}{
			"username":  username,
			"updatedAt": now,
		}, firestore.MergeAll)
	})
	if err != nil {
		return errors.FromFirestore(err, "Username", "update username")
	}
	return nil
}
