package vault

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// errNotFound is returned by bucket.get for a missing key.
var errNotFound = errors.New("not found")

// bucket stores JSON values in a flat diskv directory.
//
// The read cache is off: vouchers are approved by a second process and the
// polling process must see the change.
type bucket struct {
	d *diskv.Diskv
}

func newBucket(dir string) *bucket {
	flatTransform := func(s string) []string { return []string{} }
	return &bucket{d: diskv.New(diskv.Options{
		BasePath:     filepath.Join(dir, "vault"),
		TempDir:      filepath.Join(dir, "vault-tmp"),
		Transform:    flatTransform,
		CacheSizeMax: 0,
		FilePerm:     0o600,
		PathPerm:     0o700,
	})}
}

func (b *bucket) has(key string) bool {
	return b.d.Has(key)
}

// get unmarshals the value at key into v.
func (b *bucket) get(key string, v any) error {
	raw, err := b.d.Read(key)
	if errors.Is(err, os.ErrNotExist) {
		return errNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// set marshals v and stores it at key.
func (b *bucket) set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.d.Write(key, raw)
}

func (b *bucket) erase(key string) error {
	err := b.d.Erase(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// keys returns every key starting with prefix.
func (b *bucket) keys(prefix string) []string {
	cancel := make(chan struct{})
	defer close(cancel)

	var out []string
	for k := range b.d.KeysPrefix(prefix, cancel) {
		out = append(out, k)
	}
	return out
}
