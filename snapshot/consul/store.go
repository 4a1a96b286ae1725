// Package consul persists space snapshots in the Consul KV store.
package consul

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/semfs/snapshot"
)

// Store writes one KV entry per space root below a configurable key
// prefix. Space roots contain slashes, so they are encoded into a flat key
// segment before joining the prefix.
type Store struct {
	client *api.Client
	kv     *api.KV

	prefix string
}

// NewStore connects to a Consul agent. An empty prefix defaults to
// "semfs/snapshots".
func NewStore(config *api.Config, prefix string) (*Store, error) {
	if config == nil {
		config = api.DefaultConfig()
	}
	if prefix == "" {
		prefix = "semfs/snapshots"
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		kv:     client.KV(),
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

func (s *Store) Name() string {
	return "consul"
}

func (s *Store) Open(ctx context.Context) error {
	// Verify agent reachability
	_, err := s.client.Status().Leader()
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	pair := &api.KVPair{
		Key:   s.buildKey(snap.Root),
		Value: payload,
	}

	_, err = s.kv.Put(pair, (&api.WriteOptions{}).WithContext(ctx))
	return err
}

func (s *Store) Load(ctx context.Context, root string) (*snapshot.Snapshot, error) {
	pair, _, err := s.kv.Get(s.buildKey(root), (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, fmt.Errorf("%w: %s", snapshot.ErrSnapshotNotFound, root)
	}

	snap := &snapshot.Snapshot{}
	if err := json.Unmarshal(pair.Value, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) Delete(ctx context.Context, root string) error {
	key := s.buildKey(root)

	pair, _, err := s.kv.Get(key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return err
	}
	if pair == nil {
		return fmt.Errorf("%w: %s", snapshot.ErrSnapshotNotFound, root)
	}

	_, err = s.kv.Delete(key, (&api.WriteOptions{}).WithContext(ctx))
	return err
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	keys, _, err := s.kv.Keys(s.prefix+"/", "", (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}

	roots := make([]string, 0, len(keys))
	for _, key := range keys {
		roots = append(roots, decodeRoot(strings.TrimPrefix(key, s.prefix+"/")))
	}

	return roots, nil
}

// buildKey flattens a space root into one key segment under the prefix.
func (s *Store) buildKey(root string) string {
	return s.prefix + "/" + encodeRoot(root)
}

func encodeRoot(root string) string {
	return strings.ReplaceAll(strings.Trim(root, "/"), "/", ":")
}

func decodeRoot(key string) string {
	return "/" + strings.ReplaceAll(key, ":", "/")
}
