// Package test provides testing utilities for the marketplace backend,
// including test containers for MongoDB and a local mail service.
package test

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/greekmarket/marketplace-backend/internal"
)

// StartMongoContainer starts a MongoDB container for testing. The container
// exposes the "mongodb" endpoint used to build the connection URI.
func StartMongoContainer(ctx context.Context) (*mongodb.MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}
	return container, nil
}

// RandomDatabaseName returns a random database name, so concurrent test
// packages sharing a container never collide.
func RandomDatabaseName() string {
	return fmt.Sprintf("test_%s", internal.RandomHex(8))
}
