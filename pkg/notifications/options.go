package notifications

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func mongoFindOpts(limit int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.M{"_id": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	return opts
}
