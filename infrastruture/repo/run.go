package repo

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ i.RunRepo = &RunRepo{}

// runRecord is the stored form of a run, keyed by the string form of its ID.
type runRecord struct {
	ID         string `bson:"_id"`
	domain.Run `bson:",inline"`
}

// RunRepo handles the persistence of run summaries.
type RunRepo struct {
	collection *mongo.Collection
}

// NewRunRepo creates a new RunRepo with the given MongoDB client, database name, and collection name.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) *RunRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &RunRepo{
		collection: collection,
	}
}

// Save inserts or updates a run in the repository.
func (r *RunRepo) Save(ctx context.Context, run *domain.Run) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	filter := bson.M{"_id": run.ID.String()}
	update := bson.M{
		"$set": bson.M{
			"kind":       run.Kind,
			"status":     run.Status,
			"size":       run.Size,
			"seed":       run.Seed,
			"start":      run.Start,
			"goal":       run.Goal,
			"path":       run.Path,
			"steps":      run.Steps,
			"expanded":   run.Expanded,
			"error":      run.Error,
			"startedAt":  run.StartedAt,
			"finishedAt": run.FinishedAt,
			"updatedAt":  time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}

	return nil
}

// ByID retrieves a run by its ID.
// Returns domain.ErrRunNotFound if the run is not found or an error if an unexpected error occurs.
func (r *RunRepo) ByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": id.String()}
	var record runRecord
	if err := r.collection.FindOne(ctx, filter).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRunNotFound
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}

	run := record.Run
	run.ID, _ = uuid.Parse(record.ID)
	return &run, nil
}
