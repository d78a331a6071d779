package redis

import (
	"context"
	"strconv"

	"github.com/ashokkumar81090/Hackathon/internal/db"
)

// CreateIndex issues FT.CREATE ... ON HASH for def.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	cmd := s.b().Arbitrary("FT.CREATE").Args(createArgs(def)...).Build()
	err := s.do(ctx, cmd).Error()
	switch {
	case err == nil:
		return nil
	case isRedisErr(err, "index already exists"):
		return db.ErrIndexExists
	default:
		return &db.Error{Op: db.OpCreateIndex, Key: def.Name, Err: err}
	}
}

// DropIndex removes the index definition; the incident hashes stay.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	err := s.do(ctx, s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()).Error()
	switch {
	case err == nil:
		return nil
	case isMissingIndex(err):
		return db.ErrIndexNotFound
	default:
		return &db.Error{Op: db.OpDropIndex, Key: name, Err: err}
	}
}

// IndexExists probes FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	err := s.do(ctx, s.b().Arbitrary("FT.INFO").Args(name).Build()).Error()
	switch {
	case err == nil:
		return true, nil
	case isMissingIndex(err):
		return false, nil
	default:
		return false, &db.Error{Op: db.OpIndexInfo, Key: name, Err: err}
	}
}

// createArgs renders the FT.CREATE arguments after the command name:
//
//	name ON HASH [PREFIX 1 p] SCHEMA f TAG | f TEXT | f VECTOR HNSW 10 TYPE FLOAT32 DIM d DISTANCE_METRIC COSINE M m EF_CONSTRUCTION ef
func createArgs(def *db.IndexDefinition) []string {
	args := []string{def.Name, "ON", "HASH"}
	if def.Prefix != "" {
		args = append(args, "PREFIX", "1", def.Prefix)
	}
	args = append(args, "SCHEMA")
	for _, f := range def.Fields {
		args = append(args, f.Name, string(f.Kind))
		if f.Kind == db.KindVector {
			args = append(args, hnswArgs(f.Vector)...)
		}
	}
	return args
}

func hnswArgs(p db.VectorParams) []string {
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(p.Dim),
		"DISTANCE_METRIC", db.DistanceCosine,
		"M", strconv.Itoa(p.M),
		"EF_CONSTRUCTION", strconv.Itoa(p.EFConstruct),
	}
	return append([]string{"HNSW", strconv.Itoa(len(attrs))}, attrs...)
}
