package gravity

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

/*

sqlite recording section

note: only 1 recorder is useful per database since sqlite allows
only 1 writer at a time.

*/

const schema = `
CREATE TABLE states (
	tick 	INTEGER,
	id 		INTEGER, -- body id
	x 		REAL,
	y 		REAL,
	z 		REAL,
	vx 		REAL,
	vy 		REAL,
	vz 		REAL,
	mass 	REAL,
	radius 	REAL,
	fixed 	INTEGER);
`

const indices = `
CREATE INDEX idx_tick ON states (tick, id);
CREATE INDEX idx_id ON states (id);
`

const insert = `INSERT INTO states VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

// OpenDB creates and initializes a recording database in filename.
// Refuses to clobber an existing file.
func OpenDB(filename string) (*sql.DB, error) {
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("%s already exists", filename)
	}
	// journaling off: the recording is write-once and disposable
	db, err := sql.Open("sqlite3", "file:"+filename+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateIndices runs the create index statements. Call it once after
// recording finishes; building indices up front only slows the inserts.
func CreateIndices(db *sql.DB) error {
	_, err := db.Exec(indices)
	return err
}

// RecordFrames drains ch into db, one transaction per frame.
func RecordFrames(db *sql.DB, wg *sync.WaitGroup, ch <-chan *Frame) {
	defer wg.Done()

	stmt, err := db.Prepare(insert)
	if err != nil {
		panic(err)
	}

	for frame := range ch {
		tx, err := db.Begin()
		if err != nil {
			panic(err)
		}

		for i := range frame.Bodies {
			b := &frame.Bodies[i]
			fixed := 0
			if b.Fixed {
				fixed = 1
			}
			_, err = tx.Stmt(stmt).Exec(
				int64(frame.Tick),
				int64(b.ID),
				b.Pos.X(), b.Pos.Y(), b.Pos.Z(),
				b.Vel.X(), b.Vel.Y(), b.Vel.Z(),
				b.Mass,
				b.Radius,
				fixed)
			if err != nil {
				break
			}
		}

		if err != nil {
			tx.Rollback()
			panic(err)
		}
		tx.Commit()
	}
}
