package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore implements Store on a shared Qdrant collection. Session
// isolation is purely logical: every operation carries a source_id filter.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

func NewQdrantStore(ctx context.Context, host string, port int, collection string, vectorSize int) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client failed: %w", err)
	}

	store := &QdrantStore{client: client, collection: collection}
	if err := store.ensureCollection(ctx, vectorSize); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, vectorSize int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check qdrant collection failed: %w", err)
	}
	if exists {
		return nil
	}
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create qdrant collection failed: %w", err)
	}
	return nil
}

func (s *QdrantStore) Add(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, c := range chunks {
		payload := make(map[string]any, len(c.Metadata)+1)
		for k, v := range c.Metadata {
			payload[k] = v
		}
		payload["text"] = c.Text

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(c.ID),
			Vectors: qdrant.NewVectors(c.Vector...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upsert chunks failed: %w", err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, queryVector []float32, sourceIDs []string, limit int) ([]ScoredChunk, error) {
	if len(sourceIDs) == 0 {
		return nil, ErrEmptySourceFilter
	}
	if limit <= 0 {
		limit = 10
	}

	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatchKeywords(MetadataSourceID, sourceIDs...),
		},
	}

	lim := uint64(limit)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Filter:         filter,
		Limit:          &lim,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query chunks failed: %w", err)
	}

	results := make([]ScoredChunk, 0, len(points))
	for _, p := range points {
		meta := map[string]any{}
		if p.Payload != nil {
			meta = convertPayloadToMap(p.Payload)
		}
		text, _ := meta["text"].(string)
		delete(meta, "text")

		var vector []float32
		if v := p.Vectors.GetVector(); v != nil {
			vector = v.GetData()
		}

		id := ""
		if p.Id != nil {
			id = p.Id.GetUuid()
		}

		results = append(results, ScoredChunk{
			Chunk: Chunk{
				ID:       id,
				Text:     text,
				Metadata: meta,
				Vector:   vector,
			},
			Score: p.Score,
		})
	}
	return results, nil
}

func (s *QdrantStore) DeleteBySourceID(ctx context.Context, sourceID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(MetadataSourceID, sourceID),
		},
	}
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: filter},
		},
	})
	if err != nil {
		return fmt.Errorf("delete chunks by source failed: %w", err)
	}
	return nil
}

func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
