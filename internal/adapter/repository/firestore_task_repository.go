package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

const tasksCollection = "tasks"

type firestoreTaskRepository struct {
	client *firestore.Client
}

func NewFirestoreTaskRepository(client *firestore.Client) repository.TaskRepository {
	return &firestoreTaskRepository{
		client: client,
	}
}

func decodeTask(doc *firestore.DocumentSnapshot) (*entity.Task, error) {
	var task entity.Task
	if err := doc.DataTo(&task); err != nil {
		return nil, errors.Internal("Failed to parse task data", err)
	}
	task.ID = doc.Ref.ID
	return &task, nil
}

func (r *firestoreTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	ref := r.client.Collection(tasksCollection).NewDoc()
	if _, err := ref.Create(ctx, task); err != nil {
		return errors.FromFirestore(err, "Task", "create task")
	}
	task.ID = ref.ID
	return nil
}

func (r *firestoreTaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	doc, err := r.client.Collection(tasksCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Task", "get task")
	}
	return decodeTask(doc)
}

func (r *firestoreTaskRepository) Update(ctx context.Context, task *entity.Task) error {
	_, err := r.client.Collection(tasksCollection).Doc(task.ID).Set(ctx, task)
	if err != nil {
		return errors.FromFirestore(err, "Task", "update task")
	}
	return nil
}

func (r *firestoreTaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(tasksCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.FromFirestore(err, "Task", "delete task")
	}
	return nil
}

func (r *firestoreTaskRepository) ListByCreator(ctx context.Context, uid string) ([]*entity.Task, error) {
	iter := r.client.Collection(tasksCollection).
		Where("createdBy", "==", uid).
		OrderBy("dueDate", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	tasks := []*entity.Task{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Task", "list tasks")
		}
		task, err := decodeTask(doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
