package history

import "context"

// NullStore discards every run.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Save does nothing.
func (s *NullStore) Save(ctx context.Context, run *Run) error {
	return nil
}

// Get always reports the run as missing.
func (s *NullStore) Get(ctx context.Context, id string) (*Run, error) {
	return nil, notFound(id)
}

// List always returns no runs.
func (s *NullStore) List(ctx context.Context, limit int) ([]*Run, error) {
	return nil, nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

var _ Store = (*NullStore)(nil)
