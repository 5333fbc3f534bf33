// Package csvout persists scored conferences to a CSV file.
// Rows are appended and flushed one at a time so a partial run still leaves
// every processed conference on disk.
package csvout

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"cfpscout/internal/domain/entity"
)

// header is the fixed column order of the output file.
var header = []string{"Title", "Acronym", "When", "Where", "Deadline", "Score", "Justification"}

// Writer appends scored conferences to a CSV file. The header row is written
// once when the file is created or empty; reopening an existing file resumes
// appending without repeating it.
type Writer struct {
	file   *os.File
	writer *csv.Writer
	path   string
	closed bool
}

// Open opens or creates the CSV file at path in append mode and writes the
// header row if the file is empty.
func Open(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}

	w := &Writer{
		file:   file,
		writer: csv.NewWriter(file),
		path:   path,
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat output file %s: %w", path, err)
	}

	if info.Size() == 0 {
		if err := w.writeRow(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("write header to %s: %w", path, err)
		}
		slog.Info("Created output file", slog.String("path", path))
	} else {
		slog.Info("Appending to existing output file",
			slog.String("path", path),
			slog.Int64("size_bytes", info.Size()))
	}

	return w, nil
}

// Append writes one scored conference as a CSV row and flushes it to disk.
func (w *Writer) Append(rec *entity.ScoredConference) error {
	if w.closed {
		return fmt.Errorf("output file %s is closed", w.path)
	}

	row := []string{
		rec.Title,
		rec.Acronym,
		rec.When,
		rec.Where,
		rec.Deadline,
		strconv.Itoa(rec.Score),
		rec.Justification,
	}
	if err := w.writeRow(row); err != nil {
		return fmt.Errorf("append row to %s: %w", w.path, err)
	}
	return nil
}

// writeRow writes and flushes one row, surfacing any buffered write error.
func (w *Writer) writeRow(row []string) error {
	if err := w.writer.Write(row); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Path returns the location of the output file.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes pending rows and closes the file. It is safe to call twice.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	flushErr := w.writer.Error()
	closeErr := w.file.Close()

	if flushErr != nil {
		return fmt.Errorf("flush output file %s: %w", w.path, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close output file %s: %w", w.path, closeErr)
	}
	return nil
}
