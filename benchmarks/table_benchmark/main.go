package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"net/http"
	_ "net/http/pprof"

	"github.com/dropbox/godropbox/math2/rand2"
	"golang.org/x/sync/errgroup"

	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/database"
)

var attributes = []tabledb.Attribute{
	{Name: "id", Type: tabledb.Uint64, Count: 1, Constraints: tabledb.NotNull | tabledb.Unique},
	{Name: "bucket", Type: tabledb.Uint64, Count: 1},
	{Name: "payload", Type: tabledb.VarChar, Count: 32},
}

// run fills one database and queries it.  Databases share nothing, so
// several can run at once.
func run(dir string, numRows int, numBuckets int) (uint64, error) {
	name := filepath.Join(dir, "db")
	err := database.Create(name)
	if err != nil {
		return 0, err
	}
	db, err := database.Open(name)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	err = db.CreateTable("rows", attributes)
	if err != nil {
		return 0, err
	}
	t, err := db.OpenTable("rows")
	if err != nil {
		return 0, err
	}
	defer t.Close()

	values := make([]byte, 8+8+32)
	copy(values[16:], "benchmark payload")
	for i := 0; i < numRows; i++ {
		tabledb.ByteOrder.PutUint64(values[0:8], uint64(i))
		tabledb.ByteOrder.PutUint64(values[8:16], uint64(rand2.Intn(numBuckets)))
		err = t.Insert([]string{"id", "bucket", "payload"}, values)
		if err != nil {
			return 0, err
		}
	}
	rs, err := t.Select(
		[]string{"id"},
		[]tabledb.Condition{
			{Name: "bucket", Operator: tabledb.OpEquals, Value: tabledb.Uint64Value(0)},
		})
	if err != nil {
		return 0, err
	}
	return rs.Count(), nil
}

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	var flagNumDatabases int
	var flagNumRows int
	var flagNumBuckets int
	flag.IntVar(&flagNumDatabases, "num_databases", 4, "number of databases to fill concurrently")
	flag.IntVar(&flagNumRows, "num_rows", 10000, "number of rows to insert into each database")
	flag.IntVar(&flagNumBuckets, "num_buckets", 10, "number of distinct bucket values")
	flag.Parse()

	dir, err := os.MkdirTemp("", "table_benchmark")
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	start := time.Now()
	matches := make([]uint64, flagNumDatabases)
	var g errgroup.Group
	for i := 0; i < flagNumDatabases; i++ {
		i := i
		g.Go(func() error {
			subdir := filepath.Join(dir, fmt.Sprint(i))
			err := os.Mkdir(subdir, 0755)
			if err != nil {
				return err
			}
			matches[i], err = run(subdir, flagNumRows, flagNumBuckets)
			return err
		})
	}
	err = g.Wait()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf(
		"Done inserting and selecting %v rows in each of %v databases after %v\n",
		flagNumRows,
		flagNumDatabases,
		time.Since(start))
	for i, n := range matches {
		fmt.Printf("database %v: %v rows in bucket 0\n", i, n)
	}
}
