package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPaginate struct {
	limit int64
	page  int64
}

func newMongoPaginate(limit, page int) *mongoPaginate {
	return &mongoPaginate{
		limit: int64(limit),
		page:  int64(page),
	}
}

func (mp *mongoPaginate) getPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page*mp.limit - mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}

// PageOpts converts 1-based page/limit values into find options. Repositories
// merge these after their default sort, so paged lists keep the same order.
func PageOpts(limit, page int) *options.FindOptions {
	return newMongoPaginate(limit, page).getPaginatedOpts()
}

// sortCreatedDesc is the default order for inventory collections: newest first
func sortCreatedDesc() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created", Value: -1}})
}

// sortDateDesc is the default order for dated log collections
func sortDateDesc() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
}

// lookupOne resolves a single-valued relation into expand.<field>
func lookupOne(from, localField, as string) []bson.M {
	path := "expand." + as
	return []bson.M{
		{"$lookup": bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           path,
		}},
		{"$addFields": bson.M{path: bson.M{"$first": "$" + path}}},
	}
}

// lookupMany resolves a multi-valued relation into expand.<field>
func lookupMany(from, localField, as string) []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           "expand." + as,
		}},
	}
}
