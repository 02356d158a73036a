package kickart

import (
	"database/sql"
	"fmt"
	"hash/crc32"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Patch records a single encode of artwork into a ROM image.
type Patch struct {
	ID        int64
	Time      time.Time
	Source    string
	SourceCRC string
	Target    string
	TargetCRC string
	Artwork   string
	Vectors   int
	Palette   string
}

// History is a sqlite database of patched ROM images.
type History struct {
	db *sql.DB
}

func fingerprint(b []byte) string {
	return fmt.Sprintf("%.*X", crc32.Size<<1, crc32.ChecksumIEEE(b))
}

// NewHistory opens or creates the history database stored in file.
func NewHistory(file string) (*History, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS rom (id INTEGER PRIMARY KEY NOT NULL, crc TEXT NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS patch (id INTEGER PRIMARY KEY NOT NULL, time INTEGER NOT NULL, source TEXT NOT NULL, source_id INTEGER NOT NULL, target TEXT NOT NULL, target_id INTEGER NOT NULL, artwork TEXT NOT NULL, vectors INTEGER NOT NULL, palette TEXT NOT NULL, FOREIGN KEY(source_id) REFERENCES rom(id), FOREIGN KEY(target_id) REFERENCES rom(id))"); err != nil {
		return nil, err
	}

	return &History{
		db: db,
	}, nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) addROM(crc string) (int64, error) {
	var id int64
	switch err := h.db.QueryRow("SELECT id FROM rom WHERE crc = ?", crc).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := h.db.Exec("INSERT INTO rom (crc) VALUES (?)", crc)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Record adds p to the history and returns its ID.
func (h *History) Record(p Patch) (int64, error) {
	source, err := h.addROM(p.SourceCRC)
	if err != nil {
		return 0, err
	}

	target, err := h.addROM(p.TargetCRC)
	if err != nil {
		return 0, err
	}

	result, err := h.db.Exec("INSERT INTO patch (time, source, source_id, target, target_id, artwork, vectors, palette) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", p.Time.Unix(), p.Source, source, p.Target, target, p.Artwork, p.Vectors, p.Palette)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// List returns every patch, oldest first.
func (h *History) List() ([]Patch, error) {
	rows, err := h.db.Query("SELECT p.id, p.time, p.source, s.crc, p.target, t.crc, p.artwork, p.vectors, p.palette FROM patch AS p JOIN rom AS s ON p.source_id = s.id JOIN rom AS t ON p.target_id = t.id ORDER BY p.time, p.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patches []Patch
	for rows.Next() {
		var (
			p    Patch
			unix int64
		)
		if err := rows.Scan(&p.ID, &unix, &p.Source, &p.SourceCRC, &p.Target, &p.TargetCRC, &p.Artwork, &p.Vectors, &p.Palette); err != nil {
			return nil, err
		}
		p.Time = time.Unix(unix, 0)
		patches = append(patches, p)
	}

	return patches, rows.Err()
}

// Lookup returns the patches that produced the ROM image with the given
// fingerprint, most recent first.
func (h *History) Lookup(crc string) ([]Patch, error) {
	patches, err := h.List()
	if err != nil {
		return nil, err
	}

	var found []Patch
	for i := len(patches) - 1; i >= 0; i-- {
		if patches[i].TargetCRC == crc {
			found = append(found, patches[i])
		}
	}
	return found, nil
}
