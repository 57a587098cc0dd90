package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	dom "todoman/internal/domain"
	"todoman/internal/page"
	"todoman/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// todoDoc is the collection document shape.
type todoDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d todoDoc) toDomain() dom.Todo {
	return dom.Todo{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoTodoRepo stores todos in a MongoDB collection.
type MongoTodoRepo struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoTodoRepo(client *mongo.Client, db, collection string) *MongoTodoRepo {
	return &MongoTodoRepo{
		client: client,
		col:    client.Database(db).Collection(collection),
	}
}

// EnsureIndexes creates the compound sort index and the text index used
// by list queries. Safe to call on every startup.
func (r *MongoTodoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "completed", Value: 1}, {Key: "dueDate", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// buildMatch translates the filter spec into a Mongo predicate. The
// search text is quoted so it matches as a literal substring, not as a
// user-supplied regex.
func buildMatch(f query.Filter) bson.M {
	match := bson.M{}
	if f.Search != "" {
		pattern := regexp.QuoteMeta(f.Search)
		match["$or"] = bson.A{
			bson.M{"title": primitive.Regex{Pattern: pattern, Options: "i"}},
			bson.M{"description": primitive.Regex{Pattern: pattern, Options: "i"}},
		}
	}
	switch f.Status {
	case query.StatusCompleted:
		match["completed"] = true
	case query.StatusIncomplete:
		match["completed"] = false
	}
	return match
}

func (r *MongoTodoRepo) List(ctx context.Context, f query.Filter, s query.Sort, w page.Window) ([]dom.Todo, int, error) {
	match := buildMatch(f)

	// Total is always counted against the full predicate, independent
	// of skip/limit.
	total, err := r.col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, wrapStoreErr("count todos", err)
	}

	pipe := mongo.Pipeline{bson.D{{Key: "$match", Value: match}}}
	switch s.Mode {
	case query.SortCreatedAt:
		pipe = append(pipe, bson.D{{Key: "$sort", Value: bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: 1},
		}}})
	case query.SortTitle:
		pipe = append(pipe, bson.D{{Key: "$sort", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "_id", Value: 1},
		}}})
	default:
		// Mongo sorts missing/null before dates ascending, so the
		// missing-last rule needs a computed key.
		pipe = append(pipe,
			bson.D{{Key: "$addFields", Value: bson.D{{Key: "dueMissing", Value: bson.D{
				{Key: "$eq", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$dueDate", nil}}},
					nil,
				}},
			}}}}},
			bson.D{{Key: "$sort", Value: bson.D{
				{Key: "completed", Value: 1},
				{Key: "dueMissing", Value: 1},
				{Key: "dueDate", Value: 1},
				{Key: "_id", Value: 1},
			}}},
		)
	}
	pipe = append(pipe,
		bson.D{{Key: "$skip", Value: int64(w.Skip())}},
		bson.D{{Key: "$limit", Value: int64(w.Limit)}},
	)

	cur, err := r.col.Aggregate(ctx, pipe)
	if err != nil {
		return nil, 0, wrapStoreErr("list todos", err)
	}
	defer cur.Close(ctx)

	var docs []todoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, wrapStoreErr("decode todos", err)
	}
	list := make([]dom.Todo, len(docs))
	for i := range docs {
		list[i] = docs[i].toDomain()
	}
	return list, int(total), nil
}

func (r *MongoTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	now := time.Now().UTC()
	doc := todoDoc{
		ID:          primitive.NewObjectID(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return dom.Todo{}, wrapStoreErr("insert todo", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return dom.Todo{}, dom.ErrInvalidID
	}
	var doc todoDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return dom.Todo{}, dom.ErrNotFound
	}
	if err != nil {
		return dom.Todo{}, wrapStoreErr("get todo", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTodoRepo) Update(ctx context.Context, id string, p Patch) (dom.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return dom.Todo{}, dom.ErrInvalidID
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Completed != nil {
		set["completed"] = *p.Completed
	}
	if p.DueDate != nil {
		set["dueDate"] = *p.DueDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc todoDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return dom.Todo{}, dom.ErrNotFound
	}
	if err != nil {
		return dom.Todo{}, wrapStoreErr("update todo", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTodoRepo) Delete(ctx context.Context, id string) (dom.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return dom.Todo{}, dom.ErrInvalidID
	}
	var doc todoDoc
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return dom.Todo{}, dom.ErrNotFound
	}
	if err != nil {
		return dom.Todo{}, wrapStoreErr("delete todo", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTodoRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func wrapStoreErr(op string, err error) error {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%s: %s: %w", op, err, dom.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
