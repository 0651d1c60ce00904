package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/msomdec/taskflow/internal/domain"
)

// taskDoc is the BSON representation of a task.
type taskDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	UserID      bson.ObjectID `bson:"user_id"`
	Title       string        `bson:"title"`
	Description string        `bson:"description,omitempty"`
	Status      string        `bson:"status"`
	Priority    string        `bson:"priority"`
	DueDate     *time.Time    `bson:"due_date,omitempty"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

func (d *taskDoc) toDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		Priority:    domain.TaskPriority(d.Priority),
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// TaskRepository implements domain.TaskRepository using MongoDB.
type TaskRepository struct {
	coll *mongo.Collection
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ownerID, err := bson.ObjectIDFromHex(task.UserID)
	if err != nil {
		return fmt.Errorf("%w: bad owner id", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	doc := taskDoc{
		UserID:      ownerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert task: %w", translateErr(err))
	}

	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	task.ID = id.Hex()
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	filter, err := taskIdentity(id, userID)
	if err != nil {
		return nil, err
	}

	var doc taskDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("query task: %w", translateErr(err))
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error) {
	ownerID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	cursor, err := r.coll.Find(ctx, buildTaskFilter(ownerID, filter),
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", translateErr(err))
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	for cursor.Next(ctx) {
		var doc taskDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, *doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", translateErr(err))
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, id, userID string, update domain.TaskUpdate) (*domain.Task, error) {
	filter, err := taskIdentity(id, userID)
	if err != nil {
		return nil, err
	}

	var doc taskDoc
	err = r.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": buildTaskUpdate(update)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", translateErr(err))
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID string) error {
	filter, err := taskIdentity(id, userID)
	if err != nil {
		return err
	}

	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete task: %w", translateErr(err))
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// taskIdentity builds the owner-scoped identity filter. Malformed ids behave
// like missing documents.
func taskIdentity(id, userID string) (bson.M, error) {
	taskID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	ownerID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return bson.M{"_id": taskID, "user_id": ownerID}, nil
}

// buildTaskFilter translates a domain.TaskFilter into a Mongo query scoped to
// the owning user. Search matches title or description case-insensitively.
func buildTaskFilter(ownerID bson.ObjectID, f domain.TaskFilter) bson.M {
	filter := bson.M{"user_id": ownerID}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Priority != "" {
		filter["priority"] = string(f.Priority)
	}
	if f.Search != "" {
		pattern := regexp.QuoteMeta(f.Search)
		regex := bson.M{"$regex": pattern, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
		}
	}
	return filter
}

// buildTaskUpdate maps the non-nil fields of a TaskUpdate onto a $set
// document, always bumping updated_at.
func buildTaskUpdate(update domain.TaskUpdate) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.Priority != nil {
		set["priority"] = string(*update.Priority)
	}
	if update.DueDate != nil {
		set["due_date"] = *update.DueDate
	}
	return set
}
