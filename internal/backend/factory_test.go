package backend

import (
	"context"
	"path/filepath"
	"testing"

	"budget/internal/config"
	"budget/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "json", DataFile: "t.json"})
	if err != nil || cfg.Type != JSONBackend || cfg.DataFile != "t.json" {
		t.Fatalf("unexpected config: %+v (err=%v)", cfg, err)
	}
}

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		config  Config
		check   func(t *testing.T, res *BackendResult)
		wantErr bool
	}{
		{
			name:   "json",
			config: Config{Type: JSONBackend, DataFile: filepath.Join(dir, "t.json")},
			check: func(t *testing.T, res *BackendResult) {
				if _, ok := res.Repository.(*storage.FileRepository); !ok {
					t.Fatalf("expected file repository, got %T", res.Repository)
				}
			},
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "b.db")},
			check: func(t *testing.T, res *BackendResult) {
				if _, ok := res.Repository.(*storage.SQLiteRepository); !ok {
					t.Fatalf("expected sqlite repository, got %T", res.Repository)
				}
				if res.Cleanup == nil {
					t.Fatal("sqlite backend must provide cleanup")
				}
			},
		},
		{
			name:   "memory",
			config: Config{Type: MemoryBackend},
			check: func(t *testing.T, res *BackendResult) {
				if _, ok := res.Repository.(*storage.MemoryRepository); !ok {
					t.Fatalf("expected memory repository, got %T", res.Repository)
				}
			},
		},
		{
			name:    "json without file",
			config:  Config{Type: JSONBackend},
			wantErr: true,
		},
		{
			name:    "unknown",
			config:  Config{Type: "sheets"},
			wantErr: true,
		},
	}

	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(context.Background(), tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if res.Cleanup != nil {
				defer res.Cleanup()
			}
			tt.check(t, res)
		})
	}
}
