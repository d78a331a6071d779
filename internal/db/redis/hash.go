package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/ashokkumar81090/Hackathon/internal/db"
)

const (
	scanCount = 500 // SCAN COUNT hint
	delChunk  = 500 // keys per DEL when clearing the index
)

// HSetMulti writes one HSET per item in a single pipelined round-trip. The
// first failing key is reported; earlier items stay written.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(items))
	for _, item := range items {
		cmd := s.b().Hset().Key(item.Key).FieldValue()
		for field, value := range item.Fields {
			cmd = cmd.FieldValue(field, value)
		}
		cmds = append(cmds, cmd.Build())
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Key: items[i].Key, Err: err}
		}
	}
	return nil
}

// HGetAll reads a whole incident hash. Redis answers an empty map for absent
// keys, which is reported as db.ErrKeyNotFound.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	switch {
	case err != nil:
		return nil, &db.Error{Op: db.OpHGetAll, Key: key, Err: err}
	case len(fields) == 0:
		return nil, db.ErrKeyNotFound
	}
	return fields, nil
}

// Del removes keys, pipelining one DEL per chunk of delChunk keys.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	switch {
	case len(keys) == 0:
		return nil
	case len(keys) <= delChunk:
		if err := s.do(ctx, s.b().Del().Key(keys...).Build()).Error(); err != nil {
			return &db.Error{Op: db.OpDel, Err: err}
		}
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(keys)/delChunk+1)
	for start := 0; start < len(keys); start += delChunk {
		end := min(start+delChunk, len(keys))
		cmds = append(cmds, s.b().Del().Key(keys[start:end]...).Build())
	}
	for _, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpDel, Err: err}
		}
	}
	return nil
}

// Scan walks the keyspace for pattern. SCAN may return a key more than once
// while the table rehashes, so results are deduplicated in first-seen order.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var (
		keys   []string
		seen   = make(map[string]struct{})
		cursor uint64
	)
	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanCount).Build()
		page, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Key: pattern, Err: err}
		}
		for _, k := range page.Elements {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if cursor = page.Cursor; cursor == 0 {
			return keys, nil
		}
	}
}
