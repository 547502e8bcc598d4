package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EditorRepo handles the persistence of editor accounts.
type EditorRepo struct {
	collection *mongo.Collection
}

var _ i.EditorRepo = &EditorRepo{}

// NewEditorRepo creates a new EditorRepo with the given MongoDB client, database name, and collection name.
func NewEditorRepo(client *mongo.Client, dbName, collectionName string) *EditorRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &EditorRepo{
		collection: collection,
	}
}

// EnsureIndexes creates the unique username index.
func (r *EditorRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Save inserts or updates an editor in the repository.
// If the editor already exists, it updates the existing record.
// If the editor does not exist, it adds a new record.
func (r *EditorRepo) Save(ctx context.Context, editor *dmn.Editor) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	filter := bson.M{"_id": editor.ID}
	update := bson.M{
		"$set": bson.M{
			"username":     editor.Username,
			"passwordHash": editor.PasswordHash,
			"updatedAt":    time.Now(),
		},
		"$setOnInsert": bson.M{
			"createdAt": editor.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dmn.ErrUsernameConflict
		}
		return fmt.Errorf("unexpected error: %w", err)
	}

	return nil
}

// ByID retrieves an editor by their ID.
// Returns dmn.ErrEditorNotFound if the editor is not found.
func (r *EditorRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Editor, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// ByUsername retrieves an editor by their username.
// Returns dmn.ErrEditorNotFound if the editor is not found.
func (r *EditorRepo) ByUsername(ctx context.Context, username string) (*dmn.Editor, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *EditorRepo) findOne(ctx context.Context, filter bson.M) (*dmn.Editor, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var editor dmn.Editor
	if err := r.collection.FindOne(ctx, filter).Decode(&editor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dmn.ErrEditorNotFound
		}
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	return &editor, nil
}
