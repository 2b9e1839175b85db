package salesforce

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound dikembalikan untuk retrieve record yang tidak ada (HTTP 404).
var ErrNotFound = errors.New("salesforce: record not found")

// SaveResult adalah hasil insert/update satu record.
type SaveResult struct {
	ID      string      `json:"id"`
	Success bool        `json:"success"`
	Errors  []SaveError `json:"errors"`
}

type SaveError struct {
	StatusCode string   `json:"statusCode"`
	Message    string   `json:"message"`
	Fields     []string `json:"fields"`
}

// RemoteError adalah error dari REST API Salesforce (transport sukses,
// remote menolak).
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("salesforce: %d %s: %s", e.Status, e.Code, e.Message)
}

// Store adalah kontrak Record Store yang dipakai service layer. Implementasi
// produksi *Client; test memakai fake.
type Store interface {
	// Query menjalankan SOQL dan decode records ke dest (pointer ke slice).
	Query(ctx context.Context, soql string, dest any) error
	// Retrieve mengambil satu record by Id.
	Retrieve(ctx context.Context, objectType, id string, dest any) error
	// Insert membuat satu record.
	Insert(ctx context.Context, objectType string, record any) (SaveResult, error)
	// Update mem-patch satu record by Id.
	Update(ctx context.Context, objectType, id string, fields any) error
	// InsertCollection membuat ≤200 record dalam satu round trip.
	InsertCollection(ctx context.Context, objectType string, records []map[string]any) ([]SaveResult, error)
	// UpdateCollection mem-patch ≤200 record dalam satu round trip.
	// Setiap map wajib berisi "Id".
	UpdateCollection(ctx context.Context, objectType string, records []map[string]any) ([]SaveResult, error)
	// VersionData stream binary ContentVersion (body + content type).
	VersionData(ctx context.Context, versionID string) (io.ReadCloser, string, error)
}
