package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/diffbelt/collection"
	"github.com/fulldump/diffbelt/database"
)

type contextKey string

const contextDatabaseKey contextKey = "ed0fa170-5593-11ed-9d60-9bdc940af29d"

func SetDatabase(ctx context.Context, db *database.Database) context.Context {
	return context.WithValue(ctx, contextDatabaseKey, db)
}

func GetDatabase(ctx context.Context) *database.Database {
	return ctx.Value(contextDatabaseKey).(*database.Database)
}

// InjectDatabase makes db available to every action below the resource.
func InjectDatabase(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetDatabase(ctx, db))
		}
	}
}

// urlCollection resolves the collection named in the url.
func urlCollection(ctx context.Context) (*collection.Collection, error) {
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	return GetDatabase(ctx).GetCollection(collectionName)
}
