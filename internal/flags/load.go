package flags

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownVersion is returned by Load for versions without embedded data.
var ErrUnknownVersion = errors.New("unknown bazel version")

//go:embed data/flags.msgpack.gz
var embedded []byte

var (
	collectionOnce sync.Once
	collection     *Collection
	collectionErr  error

	tables sync.Map // version -> *Table
	group  singleflight.Group
)

// Encode writes c in the embedded format: gzip-compressed msgpack.
func Encode(w io.Writer, c *Collection) error {
	gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(gz).Encode(c); err != nil {
		return fmt.Errorf("encode flags: %w", err)
	}
	return gz.Close()
}

// Decode reads a collection written by Encode.
func Decode(r io.Reader) (*Collection, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decompress flags: %w", err)
	}
	defer gz.Close()
	var c Collection
	if err := msgpack.NewDecoder(gz).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode flags: %w", err)
	}
	return &c, nil
}

func embeddedCollection() (*Collection, error) {
	collectionOnce.Do(func() {
		collection, collectionErr = Decode(bytes.NewReader(embedded))
		if collectionErr == nil {
			slices.SortFunc(collection.Versions, CompareVersions)
		}
	})
	return collection, collectionErr
}

// Versions returns the embedded Bazel versions, oldest first.
func Versions() []string {
	c, err := embeddedCollection()
	if err != nil {
		return nil
	}
	return slices.Clone(c.Versions)
}

// Closest maps a version hint to the best embedded version.
func Closest(hint string) string {
	return ClosestIn(Versions(), hint)
}

// Load returns the table of version. Tables are decoded once and shared;
// concurrent first loads of the same version wait for a single decode.
func Load(version string) (*Table, error) {
	if t, ok := tables.Load(version); ok {
		return t.(*Table), nil
	}
	v, err, _ := group.Do(version, func() (any, error) {
		if t, ok := tables.Load(version); ok {
			return t, nil
		}
		c, err := embeddedCollection()
		if err != nil {
			return nil, err
		}
		if !slices.Contains(c.Versions, version) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
		}
		t := NewTable(version, c.Flags)
		tables.Store(version, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}
