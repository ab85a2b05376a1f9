package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LucianBellevue/ba-website/internal/core"
)

type LeadRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewLeadRepo(db *mongodrv.Database, opTimeout time.Duration) *LeadRepoMongo {
	return &LeadRepoMongo{
		coll:      db.Collection(ColLeads),
		opTimeout: opTimeout,
	}
}

func (repo *LeadRepoMongo) Create(ctx context.Context, lead core.Lead) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toLeadDoc(lead))
	if err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: lead %s already exists", core.ErrConflict, lead.ID)
		}
		return fmt.Errorf("leads.insert: %w", err)
	}
	return nil
}

func (repo *LeadRepoMongo) Get(ctx context.Context, id string) (core.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc LeadDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Lead{}, fmt.Errorf("%w: lead %s", core.ErrNotFound, id)
		}
		return core.Lead{}, fmt.Errorf("leads.findOne: %w", err)
	}
	return fromLeadDoc(doc), nil
}

func (repo *LeadRepoMongo) UpdateNotification(ctx context.Context, id string, n core.Notification, updatedAt time.Time) error {
	return repo.set(ctx, id, bson.M{
		"notification": toNotificationDoc(n),
		"updated_at":   updatedAt,
	})
}

func (repo *LeadRepoMongo) UpdateCRM(ctx context.Context, id string, state core.CRMState, updatedAt time.Time) error {
	return repo.set(ctx, id, bson.M{
		"crm":        toCRMDoc(state),
		"updated_at": updatedAt,
	})
}

func (repo *LeadRepoMongo) set(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	result, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("leads.update: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: lead %s", core.ErrNotFound, id)
	}
	return nil
}

func (repo *LeadRepoMongo) FindPendingCRM(ctx context.Context, limit int) ([]core.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	filter := bson.M{"crm.status": string(core.CRMPending)}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("leads.findPendingCRM: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []core.Lead
	for cursor.Next(ctx) {
		var doc LeadDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("leads.decode: %w", err)
		}
		leads = append(leads, fromLeadDoc(doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("leads.cursor: %w", err)
	}

	return leads, nil
}
