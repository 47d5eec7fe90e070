package mongo

import "errors"

var (
	ErrMissingConnectionURL   = errors.New("mongo connection url is not set (MONGODB_URL or MONGO_URI)")
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
)
