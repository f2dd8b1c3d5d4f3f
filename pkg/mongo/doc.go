// Package mongo provides a retrying constructor and health check for the
// official MongoDB driver. It backs the Mongo implementation of the
// notification state store (notification.MongoStorage) for deployments that
// keep their notification feed in MongoDB instead of Postgres.
package mongo
