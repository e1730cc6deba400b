package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/biohealth/ponto/internal/core/ports"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultAuditRetention = 100

	collectionEvents  = "clock_events"
	collectionWorkers = "workers"
	collectionSites   = "sites"
	collectionUsers   = "users"
	collectionAudit   = "audit_log"

	codeNamespaceExists = 48
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
	// AuditRetention is the document cap of the audit collection.
	AuditRetention int
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store is the MongoDB record store. Cascades run in session transactions
// on replica sets and sharded clusters; a standalone server has none.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	retention int
	txCapable bool
}

// Open connects and prepares collections and indexes.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &Store{client: client, db: db, retention: cfg.AuditRetention}
	if s.retention <= 0 {
		s.retention = defaultAuditRetention
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	hello, err := s.hello(ctx)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo hello: %w", err)
	}
	s.txCapable = supportsTransactions(hello)
	return s, nil
}

func (s *Store) hello(ctx context.Context) (bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var res bson.M
	err := s.db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&res)
	if err != nil {
		// Servers before 4.4.2 only know isMaster.
		err = s.db.RunCommand(ctx, bson.D{{Key: "isMaster", Value: 1}}).Decode(&res)
	}
	return res, err
}

// supportsTransactions reports whether a hello reply comes from a replica set
// member or a mongos router.
func supportsTransactions(hello bson.M) bool {
	if name, ok := hello["setName"].(string); ok && name != "" {
		return true
	}
	msg, _ := hello["msg"].(string)
	return msg == "isdbgrid"
}

// Transactor returns the store when the deployment supports transactions and
// nil otherwise, in which case cascades run sequentially with a retry.
func (s *Store) Transactor() ports.Transactor {
	if !s.txCapable {
		return nil
	}
	return s
}

func (s *Store) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	capped := options.CreateCollection().
		SetCapped(true).
		SetSizeInBytes(int64(s.retention) * 4096).
		SetMaxDocuments(int64(s.retention))
	if err := s.db.CreateCollection(ctx, collectionAudit, capped); err != nil {
		var cmdErr mongo.CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != codeNamespaceExists {
			return fmt.Errorf("create audit collection: %w", err)
		}
	}

	if err := s.Events().EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("event indexes: %w", err)
	}
	if err := s.Users().EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	return nil
}

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// RunInTx runs fn inside a session transaction. The ctx handed to fn carries
// the session, so repository calls made with it join the transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Store) Events() *EventRepository {
	return &EventRepository{col: s.db.Collection(collectionEvents)}
}

func (s *Store) Workers() *WorkerRepository {
	return &WorkerRepository{col: s.db.Collection(collectionWorkers)}
}

func (s *Store) Sites() *SiteRepository {
	return &SiteRepository{col: s.db.Collection(collectionSites)}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{col: s.db.Collection(collectionUsers)}
}

func (s *Store) Audit() *AuditRepository {
	return &AuditRepository{col: s.db.Collection(collectionAudit)}
}
