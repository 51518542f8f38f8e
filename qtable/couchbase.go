package qtable

import (
	"context"
	"time"

	"github.com/couchbase/gocb/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const couchbaseReadyTimeout = 5 * time.Second

type CouchbaseOptions struct {
	ConnStr  string
	Username string
	Password string
	Bucket   string
	DocID    string
}

// CouchbaseStore keeps the whole table as one nested document in the
// bucket's default collection.
type CouchbaseStore struct {
	opts CouchbaseOptions
}

func NewCouchbaseStore(opts CouchbaseOptions) *CouchbaseStore {
	return &CouchbaseStore{opts: opts}
}

func (s *CouchbaseStore) connect() (*gocb.Cluster, *gocb.Collection, error) {
	cluster, err := gocb.Connect(
		s.opts.ConnStr,
		gocb.ClusterOptions{
			Username: s.opts.Username,
			Password: s.opts.Password,
		})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "connect to %s", s.opts.ConnStr)
	}

	bucket := cluster.Bucket(s.opts.Bucket)
	if err := bucket.WaitUntilReady(couchbaseReadyTimeout, nil); err != nil {
		_ = cluster.Close(nil)
		return nil, nil, errors.Wrapf(err, "bucket %s not ready", s.opts.Bucket)
	}
	return cluster, bucket.DefaultCollection(), nil
}

// Load returns an empty table when the document does not exist yet.
func (s *CouchbaseStore) Load(ctx context.Context) (Table, error) {
	cluster, collection, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer cluster.Close(nil)

	result, err := collection.Get(s.opts.DocID, &gocb.GetOptions{Context: ctx})
	if errors.Is(err, gocb.ErrDocumentNotFound) {
		log.Warn().Msgf("value table document %s not found, starting empty", s.opts.DocID)
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get value table document %s", s.opts.DocID)
	}

	table := New()
	if err := result.Content(&table); err != nil {
		return nil, errors.Wrapf(err, "decode value table document %s", s.opts.DocID)
	}
	log.Debug().Msgf("loaded %d entries from document %s", table.Len(), s.opts.DocID)
	return table, nil
}

func (s *CouchbaseStore) Save(ctx context.Context, table Table) error {
	cluster, collection, err := s.connect()
	if err != nil {
		return err
	}
	defer cluster.Close(nil)

	if _, err := collection.Upsert(s.opts.DocID, table, &gocb.UpsertOptions{Context: ctx}); err != nil {
		return errors.Wrapf(err, "upsert value table document %s", s.opts.DocID)
	}
	log.Debug().Msgf("saved %d entries to document %s", table.Len(), s.opts.DocID)
	return nil
}
