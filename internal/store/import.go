package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/exercise"
)

//go:embed import_schema.json
var importSchemaJSON []byte

const importSchemaURL = "schema://mathdrill/import.json"

var (
	importSchemaOnce sync.Once
	importSchema     *jsonschema.Schema
	importSchemaErr  error
)

// ImportError reports an import file that is not valid JSON or does not
// match the history schema.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("invalid import file: %v", e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

type importFile struct {
	Version int            `json:"version"`
	Records []importRecord `json:"records"`
}

type importRecord struct {
	Category   string    `json:"category"`
	First      int       `json:"first"`
	Second     int       `json:"second"`
	Correct    bool      `json:"correct"`
	Timestamp  time.Time `json:"timestamp"`
	Format     string    `json:"format"`
	Difficulty string    `json:"difficulty"`
	Answer     *int      `json:"answer"`
	Attempts   int       `json:"attempts"`
	ElapsedMs  int64     `json:"elapsed_ms"`
}

// compiledImportSchema compiles the embedded schema once.
func compiledImportSchema() (*jsonschema.Schema, error) {
	importSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(importSchemaJSON, &def); err != nil {
			importSchemaErr = fmt.Errorf("parse import schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		c.AssertFormat()
		if err := c.AddResource(importSchemaURL, def); err != nil {
			importSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		importSchema, importSchemaErr = c.Compile(importSchemaURL)
	})
	return importSchema, importSchemaErr
}

// ValidateImport checks raw JSON against the history schema. Failures are
// returned as *ImportError.
func ValidateImport(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ImportError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compiledImportSchema()
	if err != nil {
		return fmt.Errorf("compile import schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return &ImportError{Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// ImportRecords validates raw and appends its records to the user's
// attempt history in one transaction. It returns the number of records
// written. Imported attempts feed mastery metrics only; lifetime counters
// and achievements are untouched.
func (s *Store) ImportRecords(ctx context.Context, userID string, raw []byte) (int, error) {
	if err := ValidateImport(raw); err != nil {
		return 0, err
	}

	var f importFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, &ImportError{Err: err}
	}

	results := make([]exercise.Result, 0, len(f.Records))
	for i, rec := range f.Records {
		r, err := rec.result()
		if err != nil {
			return 0, &ImportError{Err: fmt.Errorf("record %d: %w", i, err)}
		}
		results = append(results, r)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, r := range results {
			if err := s.insertAttempt(ctx, tx, userID, "", r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import records: %w", err)
	}

	s.log.Info("imported history", zapUser(userID), zap.Int("records", len(results)))
	return len(results), nil
}

func (rec importRecord) result() (exercise.Result, error) {
	cat, err := exercise.ParseCategory(rec.Category)
	if err != nil {
		return exercise.Result{}, err
	}
	diff := exercise.Easy
	if rec.Difficulty != "" {
		if diff, err = exercise.ParseDifficulty(rec.Difficulty); err != nil {
			return exercise.Result{}, err
		}
	}

	ex := exercise.Exercise{
		ID:         uuid.NewString(),
		Category:   cat,
		Operation:  cat.Operation(),
		First:      rec.First,
		Second:     rec.Second,
		Difficulty: diff,
		Format:     exercise.ParseFormat(rec.Format),
		CreatedAt:  rec.Timestamp,
	}

	answer := ex.CorrectAnswer()
	if rec.Answer != nil {
		answer = *rec.Answer
	}
	return exercise.Result{
		Exercise: ex,
		Answer:   answer,
		Correct:  rec.Correct,
		Attempts: max(rec.Attempts, 1),
		Elapsed:  exercise.CapElapsed(time.Duration(rec.ElapsedMs)*time.Millisecond, exercise.DefaultElapsedCap),

		RecordedAt: rec.Timestamp,
	}, nil
}
