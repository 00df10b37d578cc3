package db

import (
	"context"
	"time"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	todosCollection    = "todos"
	countersCollection = "counters"
)

/*
MongoRepository keeps todos in a document store.
Integer ids come from a counter document incremented atomically per insert,
so ids are never reused even after deletes.
*/
type MongoRepository struct {
	todos    *mongo.Collection
	counters *mongo.Collection
}

type todoDocument struct {
	ID        int64     `bson:"_id"`
	Task      string    `bson:"task"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d todoDocument) toModel() *models.Todo {
	return &models.Todo{ID: d.ID, Task: d.Task, CreatedAt: d.CreatedAt.UTC()}
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{
		todos:    database.Collection(todosCollection),
		counters: database.Collection(countersCollection),
	}
}

func (r *MongoRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.todos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	return errors.Wrap(err, "create todos index")
}

func (r *MongoRepository) List(ctx context.Context) ([]*models.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.todos.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list todos")
	}

	var docs []todoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode todos")
	}
	todos := make([]*models.Todo, 0, len(docs))
	for _, doc := range docs {
		todos = append(todos, doc.toModel())
	}
	return todos, nil
}

func (r *MongoRepository) Create(ctx context.Context, task string) (*models.Todo, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}
	doc := todoDocument{
		ID:        id,
		Task:      task,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.todos.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "insert todo")
	}
	return r.GetByID(ctx, id)
}

func (r *MongoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	var doc todoDocument
	err := r.todos.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get todo %d", id)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.todos.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete todo %d", id)
	}
	if res.DeletedCount == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *MongoRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx, bson.M{"_id": todosCollection}, bson.M{"$inc": bson.M{"seq": 1}}, opts,
	).Decode(&counter)
	if err != nil {
		return 0, errors.Wrap(err, "next todo id")
	}
	return counter.Seq, nil
}
