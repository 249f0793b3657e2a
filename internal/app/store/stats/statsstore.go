package statsstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of platform totals shown on the admin dashboard.
type Counts struct {
	UsersTotal   int64 `json:"users_total"`
	Players      int64 `json:"players"`
	Orgs         int64 `json:"orgs"`
	Gigs         int64 `json:"gigs"`
	Applications int64 `json:"applications"`
	Endorsements int64 `json:"endorsements"`
	NFTsMinted   int64 `json:"nfts_minted"`
}

// FetchCounts returns the platform totals. The first failing count aborts
// the fetch.
func FetchCounts(ctx context.Context, db *mongo.Database) (Counts, error) {
	var out Counts

	counters := []struct {
		coll   string
		filter bson.M
		dst    *int64
	}{
		{"users", bson.M{}, &out.UsersTotal},
		{"users", bson.M{"user_type": models.UserTypePlayer}, &out.Players},
		{"users", bson.M{"user_type": models.UserTypeOrg}, &out.Orgs},
		{"gigs", bson.M{}, &out.Gigs},
		{"applications", bson.M{}, &out.Applications},
		{"endorsements", bson.M{}, &out.Endorsements},
		{"soulbound_nfts", bson.M{}, &out.NFTsMinted},
	}

	for _, c := range counters {
		n, err := db.Collection(c.coll).CountDocuments(ctx, c.filter)
		if err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", c.coll, err)
		}
		*c.dst = n
	}
	return out, nil
}
