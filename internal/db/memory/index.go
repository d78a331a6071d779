package memory

import (
	"fmt"
	"math"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/coder/hnsw"

	"github.com/ashokkumar81090/Hackathon/internal/db"
)

// tagAnalyzerName keeps a TAG value as one lower-cased token, like a Redis TAG field.
const tagAnalyzerName = "tag_exact"

type ftIndex struct {
	def  *db.IndexDefinition
	text bleve.Index

	vecField db.Field
	graph    *hnsw.Graph[uint64]
	vectors  map[string][]float32 // unit-length vectors by record key
	nodeOf   map[string]uint64
	keyOf    map[uint64]string
	nextKey  uint64

	docs map[string]struct{}
}

func newFTIndex(def *db.IndexDefinition) (*ftIndex, error) {
	im, err := buildMapping(def)
	if err != nil {
		return nil, err
	}
	text, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}

	idx := &ftIndex{
		def:     def,
		text:    text,
		vectors: make(map[string][]float32),
		nodeOf:  make(map[string]uint64),
		keyOf:   make(map[uint64]string),
		docs:    make(map[string]struct{}),
	}

	if vf, ok := def.VectorField(); ok {
		idx.vecField = vf
		g := hnsw.NewGraph[uint64]()
		g.Distance = hnsw.CosineDistance
		g.M = vf.Vector.M
		g.Ml = 0.25
		idx.graph = g
	}

	return idx, nil
}

func buildMapping(def *db.IndexDefinition) (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(tagAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("add tag analyzer: %w", err)
	}

	dm := bleve.NewDocumentMapping()
	dm.Dynamic = false
	for _, f := range def.Fields {
		fm := bleve.NewTextFieldMapping()
		fm.Store = false
		switch f.Kind {
		case db.KindTag:
			fm.Analyzer = tagAnalyzerName
		case db.KindText:
			fm.Analyzer = standard.Name
		default:
			continue
		}
		dm.AddFieldMappingsAt(f.Name, fm)
	}
	im.DefaultMapping = dm
	return im, nil
}

// upsert (re)indexes the covered keys among items using the merged hashes.
func (idx *ftIndex) upsert(items []db.HashSetItem, hashes map[string]map[string]string) error {
	batch := idx.text.NewBatch()
	for _, item := range items {
		if !idx.def.Covers(item.Key) {
			continue
		}
		h := hashes[item.Key]
		doc := make(map[string]interface{}, len(idx.def.Fields))
		for _, f := range idx.def.Fields {
			if f.Kind == db.KindVector {
				continue
			}
			if v, ok := h[f.Name]; ok && v != "" {
				doc[f.Name] = v
			}
		}
		if err := batch.Index(item.Key, doc); err != nil {
			return fmt.Errorf("index %s: %w", item.Key, err)
		}
		idx.docs[item.Key] = struct{}{}
		idx.putVector(item.Key, h)
	}
	if err := idx.text.Batch(batch); err != nil {
		return fmt.Errorf("execute batch: %w", err)
	}
	return nil
}

func (idx *ftIndex) putVector(key string, h map[string]string) {
	if idx.graph == nil {
		return
	}
	raw, ok := h[idx.vecField.Name]
	if !ok {
		return
	}
	vec := db.BytesToVector(raw)
	if len(vec) != idx.vecField.Vector.Dim {
		return
	}
	normalize(vec)

	// coder/hnsw misbehaves when the last node is deleted, so replaced vectors are orphaned instead.
	if old, ok := idx.nodeOf[key]; ok {
		delete(idx.keyOf, old)
	}
	node := idx.nextKey
	idx.nextKey++
	idx.graph.Add(hnsw.MakeNode(node, vec))
	idx.nodeOf[key] = node
	idx.keyOf[node] = key
	idx.vectors[key] = vec
}

func (idx *ftIndex) remove(keys []string) error {
	batch := idx.text.NewBatch()
	for _, k := range keys {
		if _, ok := idx.docs[k]; !ok {
			continue
		}
		batch.Delete(k)
		delete(idx.docs, k)
		if node, ok := idx.nodeOf[k]; ok {
			delete(idx.keyOf, node)
			delete(idx.nodeOf, k)
		}
		delete(idx.vectors, k)
	}
	if batch.Size() == 0 {
		return nil
	}
	return idx.text.Batch(batch)
}

func (idx *ftIndex) orphans() int {
	if idx.graph == nil {
		return 0
	}
	return idx.graph.Len() - len(idx.keyOf)
}

func (idx *ftIndex) close() {
	_ = idx.text.Close()
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// similarity returns 1 - cosine distance of two unit vectors, clamped to [0,1].
func similarity(a, b []float32) float64 {
	return min(1, max(0, 1-float64(hnsw.CosineDistance(a, b))))
}
