package internal

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

const DefaultPingTimeout = 5 * time.Second

// URLReport summarizes a MongoDB connection string as it will be baked
// into server.js.
type URLReport struct {
	Scheme      string
	Hosts       []string
	Database    string
	Username    string
	Credentials bool
}

// InspectURL parses a MongoDB connection string. Credentials reports
// whether a password is embedded in the URL, which the generated server
// would then carry in plain text.
func InspectURL(url string) (URLReport, error) {
	cs, err := connstring.ParseAndValidate(url)
	if err != nil {
		return URLReport{}, fmt.Errorf("invalid database url: %w", err)
	}
	return URLReport{
		Scheme:      cs.Scheme,
		Hosts:       cs.Hosts,
		Database:    cs.Database,
		Username:    cs.Username,
		Credentials: cs.PasswordSet,
	}, nil
}

// Ping connects to url and pings the primary.
func Ping(ctx context.Context, url string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(url).SetServerSelectionTimeout(timeout))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
