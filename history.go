package rgbtext

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"fmt"
	"image"

	"github.com/bodgit/rgbtext/evolve"
	"github.com/bodgit/rgbtext/raw"
	_ "github.com/mattn/go-sqlite3"
)

// History is a journal of evolution runs and every generation they produced.
type History struct {
	db *sql.DB
}

// Run summarises a single evolution run.
type Run struct {
	ID          int64
	SHA1        string
	Width       int
	Height      int
	Generations int
	Best        sql.NullInt64
}

// NewHistory opens, creating if necessary, the journal in file.
func NewHistory(file string) (*History, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS run (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, started DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS generation (run_id INTEGER NOT NULL, idx INTEGER NOT NULL, tried INTEGER NOT NULL, diff INTEGER NOT NULL, frame BLOB NOT NULL, PRIMARY KEY(run_id, idx), FOREIGN KEY(run_id) REFERENCES run(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &History{
		db: db,
	}, nil
}

// Close closes the journal.
func (h *History) Close() error {
	return h.db.Close()
}

// Begin starts a new run against the target image and returns its ID.
func (h *History) Begin(target *image.RGBA) (int64, error) {
	hash := sha1.New()
	if err := raw.Encode(hash, target); err != nil {
		return 0, err
	}
	sha := fmt.Sprintf("%X", hash.Sum(nil))

	b := target.Bounds()
	result, err := h.db.Exec("INSERT INTO run (sha1, width, height) VALUES (?, ?, ?)", sha, b.Dx(), b.Dy())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Record stores a generation of the given run.
func (h *History) Record(run int64, g evolve.Generation) error {
	b := new(bytes.Buffer)
	if err := raw.Encode(b, g.Canvas); err != nil {
		return err
	}
	if _, err := h.db.Exec("INSERT INTO generation (run_id, idx, tried, diff, frame) VALUES (?, ?, ?, ?, ?)", run, g.Index, g.Tried, int64(g.Diff), b.Bytes()); err != nil {
		return err
	}
	return nil
}

// Runs returns every run in the journal, oldest first.
func (h *History) Runs() ([]Run, error) {
	rows, err := h.db.Query("SELECT r.id, r.sha1, r.width, r.height, COUNT(g.idx), MIN(g.diff) FROM run AS r LEFT JOIN generation AS g ON g.run_id = r.id GROUP BY r.id ORDER BY r.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SHA1, &r.Width, &r.Height, &r.Generations, &r.Best); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Frame returns the canvas of a generation as a record stream, or nil if
// there is no such generation.
func (h *History) Frame(run int64, index int) ([]byte, error) {
	var frame []byte
	switch err := h.db.QueryRow("SELECT frame FROM generation WHERE run_id = ? AND idx = ?", run, index).Scan(&frame); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return frame, nil
	default:
		return nil, err
	}
}
