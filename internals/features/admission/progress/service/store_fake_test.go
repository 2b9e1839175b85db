package service

import (
	"context"
	"io"
	"sync"

	"admisi_backend/internals/salesforce"
)

// fakeStore merekam semua call ke Record Store; test mengisi queryFn /
// retrieveFn sesuai skenario.
type fakeStore struct {
	mu         sync.Mutex
	queries    []string
	queryFn    func(soql string, dest any) error
	retrieveFn func(objectType, id string, dest any) error

	updates           []updateCall
	inserts           []insertCall
	insertCollections []collectionCall
	updateCollections []collectionCall

	insertResult salesforce.SaveResult
}

type updateCall struct {
	ObjectType string
	ID         string
	Fields     any
}

type insertCall struct {
	ObjectType string
	Record     any
}

type collectionCall struct {
	ObjectType string
	Records    []map[string]any
}

func (f *fakeStore) Query(_ context.Context, soql string, dest any) error {
	f.mu.Lock()
	f.queries = append(f.queries, soql)
	f.mu.Unlock()
	if f.queryFn != nil {
		return f.queryFn(soql, dest)
	}
	return nil
}

func (f *fakeStore) Retrieve(_ context.Context, objectType, id string, dest any) error {
	if f.retrieveFn != nil {
		return f.retrieveFn(objectType, id, dest)
	}
	return salesforce.ErrNotFound
}

func (f *fakeStore) Insert(_ context.Context, objectType string, record any) (salesforce.SaveResult, error) {
	f.mu.Lock()
	f.inserts = append(f.inserts, insertCall{ObjectType: objectType, Record: record})
	f.mu.Unlock()
	if f.insertResult.ID != "" {
		return f.insertResult, nil
	}
	return salesforce.SaveResult{ID: "new-id", Success: true}, nil
}

func (f *fakeStore) Update(_ context.Context, objectType, id string, fields any) error {
	f.mu.Lock()
	f.updates = append(f.updates, updateCall{ObjectType: objectType, ID: id, Fields: fields})
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) InsertCollection(_ context.Context, objectType string, records []map[string]any) ([]salesforce.SaveResult, error) {
	f.mu.Lock()
	f.insertCollections = append(f.insertCollections, collectionCall{ObjectType: objectType, Records: records})
	f.mu.Unlock()
	results := make([]salesforce.SaveResult, len(records))
	for i := range results {
		results[i] = salesforce.SaveResult{ID: "ins", Success: true}
	}
	return results, nil
}

func (f *fakeStore) UpdateCollection(_ context.Context, objectType string, records []map[string]any) ([]salesforce.SaveResult, error) {
	f.mu.Lock()
	f.updateCollections = append(f.updateCollections, collectionCall{ObjectType: objectType, Records: records})
	f.mu.Unlock()
	results := make([]salesforce.SaveResult, len(records))
	for i := range results {
		results[i] = salesforce.SaveResult{Success: true}
	}
	return results, nil
}

func (f *fakeStore) VersionData(_ context.Context, _ string) (io.ReadCloser, string, error) {
	return nil, "", salesforce.ErrNotFound
}

func (f *fakeStore) writeCount() int {
	return len(f.updates) + len(f.inserts) + len(f.insertCollections) + len(f.updateCollections)
}
