package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/storer"
)

type memoryStorer struct {
	options storer.Options
	records map[int64]storer.Record
	nextId  int64
	mtx     sync.RWMutex
}

func (s *memoryStorer) InsertMany(ctx context.Context, titles []string) ([]storer.Record, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	inserted := make([]storer.Record, 0, len(titles))
	for _, title := range titles {
		inserted = append(inserted, s.insert(title, nil))
	}

	return inserted, nil
}

func (s *memoryStorer) Insert(ctx context.Context, title string, vector []float32) (storer.Record, error) {
	if err := storer.CheckDimensions(s.options, vector); err != nil {
		return storer.Record{}, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.insert(title, vector), nil
}

func (s *memoryStorer) insert(title string, vector []float32) storer.Record {
	s.nextId++

	now := time.Now().UTC()

	rec := storer.Record{
		Id:        s.nextId,
		Title:     title,
		Embedding: clone(vector),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.records[rec.Id] = rec

	return rec
}

func (s *memoryStorer) UpdateEmbedding(ctx context.Context, id int64, vector []float32) error {
	if err := storer.CheckDimensions(s.options, vector); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return goerr.Wrap(storer.ErrNotFound, "cannot update embedding", goerr.V("id", id))
	}

	rec.Embedding = clone(vector)
	rec.UpdatedAt = time.Now().UTC()

	s.records[id] = rec

	return nil
}

func (s *memoryStorer) SelectAll(ctx context.Context) ([]storer.Record, error) {
	return s.selectWhere(func(storer.Record) bool { return true }), nil
}

func (s *memoryStorer) SelectMissingEmbeddings(ctx context.Context) ([]storer.Record, error) {
	return s.selectWhere(func(rec storer.Record) bool { return rec.Embedding == nil }), nil
}

func (s *memoryStorer) selectWhere(keep func(storer.Record) bool) []storer.Record {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	records := make([]storer.Record, 0, len(s.records))
	for _, rec := range s.records {
		if keep(rec) {
			rec.Embedding = nil
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Id < records[j].Id
	})

	return records
}

func (s *memoryStorer) SearchBySimilarity(ctx context.Context, vector []float32, threshold float64, limit int) ([]storer.Match, error) {
	if err := storer.CheckDimensions(s.options, vector); err != nil {
		return nil, err
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]storer.Match, 0, len(s.records))

	for _, rec := range s.records {
		if rec.Embedding == nil {
			continue
		}
		score, ok := storer.CosineSimilarity(vector, rec.Embedding)
		if !ok {
			continue
		}
		candidates = append(candidates, storer.Match{
			Id:         rec.Id,
			Title:      rec.Title,
			Similarity: score,
		})
	}

	return storer.Rank(candidates, threshold, limit), nil
}

func (s *memoryStorer) Close() error {
	return nil
}

func clone(vector []float32) []float32 {
	if vector == nil {
		return nil
	}
	cpy := make([]float32, len(vector))
	copy(cpy, vector)
	return cpy
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	s := &memoryStorer{
		options: options,
		records: map[int64]storer.Record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
