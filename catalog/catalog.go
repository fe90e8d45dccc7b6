/*
Package catalog maintains an SQLite index of the maps in a cartridge image.

Each map gets a row with its dimensions, display name, header location and a
PNG thumbnail, plus a row per connection. The index can then be searched by
name without decoding the image again.
*/
package catalog

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/pokemap/mapdata"
	_ "github.com/mattn/go-sqlite3"
)

// Record is everything stored about one map
type Record struct {
	ID          mapdata.ID
	Header      int
	Width       int
	Height      int
	Label       uint8
	Name        string
	Connections []mapdata.Connection
	Thumbnail   []byte
}

type Catalog struct {
	db *sql.DB
}

func Open(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS map (id INTEGER PRIMARY KEY NOT NULL, bank INTEGER NOT NULL, number INTEGER NOT NULL, header INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, label INTEGER NOT NULL, name TEXT, thumbnail BLOB, UNIQUE(bank, number))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS connection (map_id INTEGER NOT NULL, direction INTEGER NOT NULL, displacement INTEGER NOT NULL, bank INTEGER NOT NULL, number INTEGER NOT NULL, FOREIGN KEY(map_id) REFERENCES map(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Reset removes every map
func (c *Catalog) Reset() error {
	if _, err := c.db.Exec("DELETE FROM connection"); err != nil {
		return err
	}
	if _, err := c.db.Exec("DELETE FROM map"); err != nil {
		return err
	}
	return nil
}

// Add stores r, replacing any existing record for the same map
func (c *Catalog) Add(r *Record) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var name sql.NullString
	if r.Name != "" {
		name.String = r.Name
		name.Valid = true
	}

	if _, err := tx.Exec("DELETE FROM map WHERE bank = ? AND number = ?", r.ID.Bank, r.ID.Map); err != nil {
		return err
	}

	result, err := tx.Exec("INSERT INTO map (bank, number, header, width, height, label, name, thumbnail) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", r.ID.Bank, r.ID.Map, r.Header, r.Width, r.Height, r.Label, name, r.Thumbnail)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, conn := range r.Connections {
		if _, err := tx.Exec("INSERT INTO connection (map_id, direction, displacement, bank, number) VALUES (?, ?, ?, ?, ?)", id, uint32(conn.Direction), conn.Offset, conn.Target.Bank, conn.Target.Map); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of maps
func (c *Catalog) Count() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM map").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// FindByName returns every map called name, ignoring case
func (c *Catalog) FindByName(name string) ([]mapdata.ID, error) {
	rows, err := c.db.Query("SELECT bank, number FROM map WHERE name = ? COLLATE NOCASE ORDER BY bank, number", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []mapdata.ID
	for rows.Next() {
		var id mapdata.ID
		if err := rows.Scan(&id.Bank, &id.Map); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Find returns the record for id or nil if there isn't one
func (c *Catalog) Find(id mapdata.ID) (*Record, error) {
	var (
		key  int64
		name sql.NullString
	)
	r := &Record{ID: id}
	switch err := c.db.QueryRow("SELECT id, header, width, height, label, name, thumbnail FROM map WHERE bank = ? AND number = ?", id.Bank, id.Map).Scan(&key, &r.Header, &r.Width, &r.Height, &r.Label, &name, &r.Thumbnail); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		r.Name = name.String
	default:
		return nil, err
	}

	rows, err := c.db.Query("SELECT direction, displacement, bank, number FROM connection WHERE map_id = ? ORDER BY rowid", key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			conn      mapdata.Connection
			direction uint32
		)
		if err := rows.Scan(&direction, &conn.Offset, &conn.Target.Bank, &conn.Target.Map); err != nil {
			return nil, err
		}
		conn.Direction = mapdata.Direction(direction)
		r.Connections = append(r.Connections, conn)
	}
	return r, rows.Err()
}
