// Package mongo connects to MongoDB through go.mongodb.org/mongo-driver/v2.
//
// New applies the pool and retry settings from Config and pings the server
// before returning, retrying with a pause between attempts. NewWithDatabase
// returns the database handle used by svc/mongostore. Healthcheck is wired
// into the readiness endpoint.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    // fail fast
//	}
//	defer db.Client().Disconnect(context.Background())
package mongo
