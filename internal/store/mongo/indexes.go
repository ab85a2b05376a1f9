package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := ensureLeadsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure leads indexes: %w", err)
	}
	return nil
}

func ensureLeadsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColLeads)
	models := []mongo.IndexModel{
		newIndex("created_at", 1, "leads_created_at", false),
		newIndex("contact.email", 1, "leads_contact_email", false),
		{
			Keys:    bson.D{{Key: "crm.status", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("leads_crm_status_created_at"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func newIndex(field string, asc int32, name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts = opts.SetUnique(true)
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: asc}},
		Options: opts,
	}
}
