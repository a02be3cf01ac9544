package attribution

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vkm/heatlamp/internal/ctxlog"
)

// maxLineBytes bounds a single record line. Attribution vectors for a
// 512-token input stay well under this.
const maxLineBytes = 4 * 1024 * 1024

// ReadFile reads every record from a JSON-lines file.
func ReadFile(ctx context.Context, path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records %s: %w", path, err)
	}
	defer f.Close()
	return Read(ctx, f)
}

// Read decodes records from r, one JSON object per line. Blank lines are
// skipped. A record whose attribution vector does not align with its input
// ids is rejected with its line number.
func Read(ctx context.Context, r io.Reader) ([]Record, error) {
	logger := ctxlog.FromContext(ctx)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("record line %d: %w", line, err)
		}
		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("record line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	logger.Debug("Attribution records read.", "count", len(records))
	return records, nil
}

func (r *Record) validate() error {
	if len(r.InputIDs) == 0 {
		return fmt.Errorf("instance %d has no input ids", r.Index)
	}
	if len(r.Attributions) != len(r.InputIDs) {
		return fmt.Errorf("instance %d: %d attributions for %d input ids",
			r.Index, len(r.Attributions), len(r.InputIDs))
	}
	if len(r.Tokens) > 0 && len(r.Tokens) != len(r.InputIDs) {
		return fmt.Errorf("instance %d: %d tokens for %d input ids",
			r.Index, len(r.Tokens), len(r.InputIDs))
	}
	return nil
}
