package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blog-api/models"
)

const postsCollection = "posts"

var (
	ErrPostNotFound  = errors.New("post_not_found")
	ErrDuplicatePost = errors.New("duplicate_post")
)

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(postsCollection)}
}

// PostUpdate 는 PUT 으로 바꿀 수 있는 필드만 담는다. nil 이면 건드리지 않는다.
type PostUpdate struct {
	Title   *string
	Content *string
}

// Empty reports whether the update changes nothing.
func (u PostUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil
}

// now 는 Mongo 가 저장하는 밀리초 정밀도에 맞춘 현재 시각이다.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func prepareInsert(p *models.Post) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Created.IsZero() {
		p.Created = now()
	}
	p.UpdatedAt = p.Created
}

// Insert inserts a new post document and assigns its ID and created time.
func (r *PostRepository) Insert(ctx context.Context, p *models.Post) error {
	prepareInsert(p)
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicatePost
		}
		return err
	}
	return nil
}

// InsertMany inserts the given posts in one round trip. Used by fixture seeding.
func (r *PostRepository) InsertMany(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		prepareInsert(p)
		docs = append(docs, p)
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicatePost
		}
		return err
	}
	return nil
}

// FindByID returns a post by its ObjectID
func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ExistsBySourceLink checks if a post was already imported from link.
func (r *PostRepository) ExistsBySourceLink(ctx context.Context, link string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"source_link": link}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

// List returns every post sorted by created desc
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	findOpts := options.Find().SetSort(bson.D{
		{Key: "created", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := []models.Post{}
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of post documents.
func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// Update sets the provided fields and updated_at. created 는 절대 바꾸지 않는다.
func (r *PostRepository) Update(ctx context.Context, id primitive.ObjectID, u PostUpdate) error {
	set := bson.M{"updated_at": now()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes a post by ID.
func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeleteAll removes every post and returns how many were deleted.
func (r *PostRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
