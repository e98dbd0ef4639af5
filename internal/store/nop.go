package store

import (
	"time"

	"github.com/amishk599/codedesc/internal/model"
)

// NopStore is a no-op store used in dry-run mode. Nothing is persisted.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Save(model.Entry) error                { return nil }
func (s *NopStore) Get(string) (model.Entry, bool, error) { return model.Entry{}, false, nil }
func (s *NopStore) List(time.Time) ([]model.Entry, error) { return nil, nil }
func (s *NopStore) Count() (int, error)                   { return 0, nil }
