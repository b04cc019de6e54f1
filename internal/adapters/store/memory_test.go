package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

func TestMemoryStoreOrdersBatches(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_ = m.SaveBatch(ctx, "run", 2, []domain.Contact{{UserName: "@c"}})
	_ = m.SaveBatch(ctx, "run", 0, []domain.Contact{{UserName: "@a"}})
	_ = m.SaveBatch(ctx, "run", 1, nil)
	_ = m.SaveBatch(ctx, "other", 0, []domain.Contact{{UserName: "@x"}})

	got, err := m.Load(ctx, "run")
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Contact{{UserName: "@a"}, {UserName: "@c"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, expected %+v", got, want)
	}
}

func TestMemoryStoreOverwritesBatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	deleted := []domain.Contact{{UserName: "@a"}}
	_ = m.SaveBatch(ctx, "run", 0, deleted)
	deleted[0].UserName = "@mutated"
	_ = m.SaveBatch(ctx, "run", 1, []domain.Contact{{UserName: "@b"}})
	_ = m.SaveBatch(ctx, "run", 1, []domain.Contact{{UserName: "@b2"}})

	got, _ := m.Load(ctx, "run")
	want := []domain.Contact{{UserName: "@a"}, {UserName: "@b2"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, expected %+v", got, want)
	}
}

func TestMemoryStoreEmptyRunID(t *testing.T) {
	m := NewMemoryStore()
	if err := m.SaveBatch(context.Background(), "", 0, nil); !errors.Is(err, ErrEmptyRunID) {
		t.Errorf("SaveBatch: expected ErrEmptyRunID, got %v", err)
	}
	if _, err := m.Load(context.Background(), ""); !errors.Is(err, ErrEmptyRunID) {
		t.Errorf("Load: expected ErrEmptyRunID, got %v", err)
	}
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(batch int) {
			defer wg.Done()
			_ = m.SaveBatch(ctx, "run", batch, []domain.Contact{{UserName: "@u"}})
		}(i)
	}
	wg.Wait()

	got, _ := m.Load(ctx, "run")
	if len(got) != 50 {
		t.Errorf("expected 50 contacts, got %d", len(got))
	}
}

func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(context.Background(), Config{}, logger)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("empty driver opened %T", s)
	}

	if _, err := Open(context.Background(), Config{Driver: "sqlite"}, logger); !errors.Is(err, ErrUnknownStore) {
		t.Errorf("expected ErrUnknownStore, got %v", err)
	}
}
