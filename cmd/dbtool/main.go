// dbtool inspects and edits the persisted application state directly,
// for debugging stuck quota or rotation state without starting the server.
//
// Usage:
//
//	dbtool -db .config/learn-tube.db                 # list all state keys
//	dbtool -db .config/learn-tube.db -key quota_state # print one blob
//	dbtool -db .config/learn-tube.db -key quota_state -delete -apply
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

func main() {
	log.SetFlags(0)

	dbPath := flag.String("db", ".config/learn-tube.db", "path to the SQLite state database")
	key := flag.String("key", "", "state key to print (empty lists all keys)")
	del := flag.Bool("delete", false, "delete the given key")
	apply := flag.Bool("apply", false, "apply changes (default: dry-run)")
	flag.Parse()

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if *key == "" {
		if err := listKeys(db); err != nil {
			log.Fatalf("list keys: %v", err)
		}
		return
	}

	if *del {
		if !*apply {
			log.Printf("dry-run: would delete key %q (use --apply)", *key)
			return
		}
		res, err := db.Exec(`DELETE FROM state_blobs WHERE key = ?`, *key)
		if err != nil {
			log.Fatalf("delete: %v", err)
		}
		n, _ := res.RowsAffected()
		log.Printf("deleted %d row(s)", n)
		return
	}

	if err := printBlob(db, *key); err != nil {
		log.Fatalf("print blob: %v", err)
	}
}

func listKeys(db *sql.DB) error {
	rows, err := db.Query(`SELECT key, length(value), updated_at FROM state_blobs ORDER BY key`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, updatedAt string
		var size int
		if err := rows.Scan(&key, &size, &updatedAt); err != nil {
			return err
		}
		log.Printf("%-24s %6d bytes  updated %s", key, size, updatedAt)
	}
	return rows.Err()
}

func printBlob(db *sql.DB, key string) error {
	var value string
	err := db.QueryRow(`SELECT value FROM state_blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fmt.Errorf("key %q not found", key)
	}
	if err != nil {
		return err
	}

	var pretty any
	if err := json.Unmarshal([]byte(value), &pretty); err != nil {
		log.Printf("%s", value)
		return nil
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	log.Printf("%s", out)
	return nil
}
