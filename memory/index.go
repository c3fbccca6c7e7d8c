// Package memory keeps an in-memory index of the uploads that have been
// moved into place.
package memory

import (
	"context"
	"errors"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
	"impractical.co/upfile"
	"yall.in"
)

// ErrNotFound is returned when a Record is requested and can't be found.
var ErrNotFound = errors.New("record not found")

const table = "upload"

var (
	schema = &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			table: &memdb.TableSchema{
				Name: table,
				Indexes: map[string]*memdb.IndexSchema{
					"id": &memdb.IndexSchema{
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Path"},
					},
					"client_filename": &memdb.IndexSchema{
						Name:         "client_filename",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "ClientFilename"},
					},
					"sha256": &memdb.IndexSchema{
						Name:         "sha256",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "SHA256", Lowercase: true},
					},
				},
			},
		},
	}
)

// Index is an in-memory index of upfile.Records, keyed by the path each
// upload was moved to. It is safe for concurrent use.
type Index struct {
	db *memdb.MemDB
}

// NewIndex returns an empty Index.
func NewIndex() (*Index, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}
	return &Index{
		db: db,
	}, nil
}

// Put stores rec, replacing any Record already stored for the same path.
func (i *Index) Put(ctx context.Context, rec upfile.Record) error {
	log := yall.FromContext(ctx)
	log = log.WithField("upfile.path", rec.Path)

	txn := i.db.Txn(true)
	defer txn.Abort()
	r := rec
	err := txn.Insert(table, &r)
	if err != nil {
		return fmt.Errorf("error indexing %s: %w", rec.Path, err)
	}
	txn.Commit()
	log.Debug("[upfile] record indexed")
	return nil
}

// Get returns the Record for the upload moved to path, or ErrNotFound.
func (i *Index) Get(ctx context.Context, path string) (upfile.Record, error) {
	log := yall.FromContext(ctx)
	log = log.WithField("upfile.path", path)

	txn := i.db.Txn(false)
	res, err := txn.First(table, "id", path)
	if err != nil {
		return upfile.Record{}, err
	}
	if res == nil {
		log.Debug("[upfile] record not found")
		return upfile.Record{}, ErrNotFound
	}
	log.Debug("[upfile] record found")
	return *res.(*upfile.Record), nil
}

// Delete removes the Record for path. Deleting a path that isn't indexed is
// not an error.
func (i *Index) Delete(ctx context.Context, path string) error {
	log := yall.FromContext(ctx)
	log = log.WithField("upfile.path", path)

	txn := i.db.Txn(true)
	defer txn.Abort()
	exists, err := txn.First(table, "id", path)
	if err != nil {
		return err
	}
	if exists == nil {
		return nil
	}
	err = txn.Delete(table, exists)
	if err != nil {
		return err
	}
	txn.Commit()
	log.Debug("[upfile] record deleted")
	return nil
}

// ByClientFilename returns every Record whose upload had the given client
// filename.
func (i *Index) ByClientFilename(ctx context.Context, name string) ([]upfile.Record, error) {
	return i.list(ctx, "client_filename", name)
}

// BySHA256 returns every Record whose contents hash to sum.
func (i *Index) BySHA256(ctx context.Context, sum string) ([]upfile.Record, error) {
	return i.list(ctx, "sha256", sum)
}

func (i *Index) list(ctx context.Context, index, value string) ([]upfile.Record, error) {
	log := yall.FromContext(ctx)
	log = log.WithField("upfile.index", index)
	log = log.WithField("upfile.value", value)

	txn := i.db.Txn(false)
	it, err := txn.Get(table, index, value)
	if err != nil {
		return nil, err
	}
	var recs []upfile.Record
	for obj := it.Next(); obj != nil; obj = it.Next() {
		recs = append(recs, *obj.(*upfile.Record))
	}
	log = log.WithField("upfile.matches", len(recs))
	log.Debug("[upfile] records listed")
	return recs, nil
}
