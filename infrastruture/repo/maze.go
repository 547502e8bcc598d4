package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mazeDocument is the BSON form of a maze. The grid is stored as its snapshot.
type mazeDocument struct {
	ID        uuid.UUID     `bson:"_id"`
	Name      string        `bson:"name"`
	OwnerID   uuid.UUID     `bson:"ownerId"`
	Grid      maze.Snapshot `bson:"grid"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func toDocument(m *dmn.Maze) mazeDocument {
	return mazeDocument{
		ID:        m.ID,
		Name:      m.Name,
		OwnerID:   m.OwnerID,
		Grid:      m.Grid.Snapshot(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (d mazeDocument) toDomain() (*dmn.Maze, error) {
	g, err := maze.Restore(d.Grid)
	if err != nil {
		return nil, fmt.Errorf("maze %s: %w", d.ID, err)
	}
	return &dmn.Maze{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		Grid:      g,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// MazeRepo handles the persistence of mazes.
type MazeRepo struct {
	collection *mongo.Collection
}

var _ i.MazeRepo = &MazeRepo{}

// NewMazeRepo creates a new MazeRepo with the given MongoDB client, database name, and collection name.
func NewMazeRepo(client *mongo.Client, dbName, collectionName string) *MazeRepo {
	return &MazeRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// EnsureIndexes creates the owner index used by ByOwner.
func (r *MazeRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "updatedAt", Value: -1}},
	})
	return err
}

// Save inserts or replaces the maze.
func (r *MazeRepo) Save(ctx context.Context, m *dmn.Maze) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": m.ID}, toDocument(m), opts); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

// ByID retrieves a maze by its ID.
// Returns dmn.ErrMazeNotFound if the maze is not found.
func (r *MazeRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Maze, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var doc mazeDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dmn.ErrMazeNotFound
		}
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	return doc.toDomain()
}

// ByOwner lists the mazes of ownerID, most recently updated first.
func (r *MazeRepo) ByOwner(ctx context.Context, ownerID uuid.UUID) ([]*dmn.Maze, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}

	var docs []mazeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}

	mazes := make([]*dmn.Maze, 0, len(docs))
	for _, d := range docs {
		m, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		mazes = append(mazes, m)
	}
	return mazes, nil
}

// Delete removes the maze with the given ID.
// Returns dmn.ErrMazeNotFound if the maze is not found.
func (r *MazeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	if res.DeletedCount == 0 {
		return dmn.ErrMazeNotFound
	}
	return nil
}
