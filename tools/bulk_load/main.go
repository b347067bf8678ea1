package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"net/http"
	_ "net/http/pprof"

	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/database"
	"github.com/robot-dreams/tabledb/encoding"
	"github.com/robot-dreams/tabledb/shell"
)

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	var flagInput string
	var flagDatabase string
	var flagTable string
	var flagSchema string
	flag.StringVar(&flagInput, "input", "", "path to input table (csv)")
	flag.StringVar(&flagDatabase, "database", "", "path to the database; created if missing")
	flag.StringVar(&flagTable, "table", "", "table to load into")
	flag.StringVar(
		&flagSchema,
		"schema",
		"userId:uint64 movieId:uint64 rating:float64 timestamp:uint64",
		"attributes used when the table doesn't exist yet")
	flag.Parse()
	if flagInput == "" || flagDatabase == "" || flagTable == "" {
		log.Fatal("input, database, and table flags must all be provided")
	}

	if !database.Exists(flagDatabase) {
		err := database.Create(flagDatabase)
		if err != nil {
			log.Fatal(err)
		}
	}
	db, err := database.Open(flagDatabase)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if !db.TableExists(flagTable) {
		var attrs []tabledb.Attribute
		for _, def := range strings.Fields(flagSchema) {
			attr, err := shell.ParseAttribute(def)
			if err != nil {
				log.Fatal(err)
			}
			attrs = append(attrs, attr)
		}
		err = db.CreateTable(flagTable, attrs)
		if err != nil {
			log.Fatal(err)
		}
	}
	t, err := db.OpenTable(flagTable)
	if err != nil {
		log.Fatal(err)
	}
	defer t.Close()

	fmt.Println("Starting timer...")
	start := time.Now()
	n, err := encoding.Load(t, flagInput)
	if err != nil {
		log.Fatalf("failed after %v rows: %v", n, err)
	}
	fmt.Printf(
		"Done bulk loading %v rows into %v after %v\n",
		n,
		flagTable,
		time.Since(start))

	fmt.Println("Resetting timer...")
	start = time.Now()
	rs, err := t.Scan()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf(
		"Done scanning all %v rows of %v after %v\n",
		rs.Count(),
		flagTable,
		time.Since(start))
}
