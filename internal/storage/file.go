package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"budget/internal/core"
	applog "budget/internal/log"
)

// fileRecord is the persisted shape of a transaction, one object per element
// of the top-level JSON array.
type fileRecord struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Notes    string  `json:"notes"`
}

// FileRepository persists the whole collection to a single JSON file.
type FileRepository struct {
	path   string
	logger *applog.Logger
}

func NewFileRepository(path string, logger *applog.Logger) *FileRepository {
	if logger == nil {
		logger = applog.Discard()
	}
	return &FileRepository{path: path, logger: logger.WithComponent(applog.ComponentStorage)}
}

func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the file. A missing or empty file, or a top level that is not an
// array, yields an empty collection. Elements that are not objects, or whose
// amount is not numeric, are dropped. A file that is not valid JSON is moved
// aside so the next save cannot overwrite it, and an empty collection is
// returned.
func (r *FileRepository) Load(ctx context.Context) ([]core.Transaction, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.InfoContext(ctx, "No transaction file yet, starting empty", applog.FieldPathOnDisk, r.path)
		return []core.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transaction file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Transaction{}, nil
	}

	top, err := decodeSingle(data)
	if err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", r.path, time.Now().Unix())
		if renameErr := os.Rename(r.path, aside); renameErr != nil {
			return nil, fmt.Errorf("decode transaction file: %w (move aside: %v)", err, renameErr)
		}
		r.logger.WarnContext(ctx, "Transaction file is not valid JSON, moved aside",
			applog.FieldPathOnDisk, r.path, applog.FieldMovedTo, aside, applog.FieldError, err)
		return []core.Transaction{}, nil
	}

	elems, ok := top.([]any)
	if !ok {
		r.logger.WarnContext(ctx, "Transaction file is not a list, starting empty", applog.FieldPathOnDisk, r.path)
		return []core.Transaction{}, nil
	}

	out := make([]core.Transaction, 0, len(elems))
	dropped := 0
	for _, el := range elems {
		obj, ok := el.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		t, err := recordFromMap(obj)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, t)
	}
	if dropped > 0 {
		r.logger.WarnContext(ctx, "Dropped malformed transaction records",
			applog.FieldDropped, dropped, applog.FieldCount, len(out), applog.FieldPathOnDisk, r.path)
	}
	return out, nil
}

// Save replaces the file contents. The data is written to a temporary file in
// the same directory and renamed over the target, so a crash mid-write leaves
// the previous file intact.
func (r *FileRepository) Save(ctx context.Context, txs []core.Transaction) error {
	records := make([]fileRecord, len(txs))
	for i, t := range txs {
		records[i] = fileRecord{
			ID:       t.ID,
			Date:     t.Date,
			Type:     t.Type.String(),
			Amount:   t.Amount.Float(),
			Category: t.Category,
			Notes:    t.Notes,
		}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("replace transaction file: %w", err)
	}

	r.logger.DebugContext(ctx, "Transactions saved", applog.FieldCount, len(txs), applog.FieldPathOnDisk, r.path)
	return nil
}

// decodeSingle decodes exactly one JSON value; trailing data is an error.
func decodeSingle(data []byte) (any, error) {
	var top any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&top); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return top, nil
}

// recordFromMap decodes one element, defaulting absent fields. Only an amount
// that cannot be read as a number rejects the element.
func recordFromMap(m map[string]any) (core.Transaction, error) {
	t := core.Transaction{
		ID:       stringField(m, "id"),
		Date:     stringField(m, "date"),
		Category: stringField(m, "category"),
		Notes:    stringField(m, "notes"),
	}

	rawType := stringField(m, "type")
	if typ, err := core.ParseType(rawType); err == nil {
		t.Type = typ
	} else {
		t.Type = core.TxType(rawType)
	}

	amount, err := amountField(m["amount"])
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = amount
	return t, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func amountField(v any) (core.Money, error) {
	switch a := v.(type) {
	case nil:
		return core.Money{}, nil
	case json.Number:
		f, err := strconv.ParseFloat(a.String(), 64)
		if err != nil {
			return core.Money{}, core.ErrInvalidAmount
		}
		return core.MoneyFromFloat(f)
	case string:
		if strings.TrimSpace(a) == "" {
			return core.Money{}, nil
		}
		return core.ParseMoney(a)
	default:
		return core.Money{}, core.ErrInvalidAmount
	}
}
