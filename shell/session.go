package shell

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/database"
	"github.com/robot-dreams/tabledb/encoding"
	"github.com/robot-dreams/tabledb/executor"
)

const helpText = `.help                                      show this message
.tables                                    list tables
.schema TABLE                              show the attributes of TABLE
.create TABLE name:type[:count][:nn][:uq]  create a table
.load TABLE FILE.csv                       insert every row of a csv file
insert TABLE name=value ...                insert a row
select TABLE [a,b|*] [where a=v and b!=v] [limit n]
.exit                                      leave the shell
`

// Session runs commands against an open database, writing results to out.
type Session struct {
	db  *database.Database
	out io.Writer
}

func NewSession(db *database.Database, out io.Writer) *Session {
	return &Session{
		db:  db,
		out: out,
	}
}

// Run parses and executes a single line; it reports whether the shell
// should exit.
func (s *Session) Run(line string) (bool, error) {
	cmd, err := Parse(line)
	if err != nil {
		return false, err
	}
	return s.Execute(cmd)
}

func (s *Session) Execute(cmd *Command) (bool, error) {
	switch cmd.Kind {
	case Help:
		_, err := io.WriteString(s.out, helpText)
		return false, err
	case Exit:
		return true, nil
	case ListTables:
		for _, name := range s.db.Tables() {
			fmt.Fprintln(s.out, name)
		}
		return false, nil
	case ShowSchema:
		return false, s.showSchema(cmd.Table)
	case CreateTable:
		return false, s.db.CreateTable(cmd.Table, cmd.Attributes)
	case Load:
		return false, s.withTable(cmd.Table, func(t *database.Table) error {
			n, err := encoding.Load(t, cmd.Path)
			fmt.Fprintf(s.out, "%d rows inserted\n", n)
			return err
		})
	case Insert:
		return false, s.withTable(cmd.Table, func(t *database.Table) error {
			return insert(t, cmd.Assignments)
		})
	case Select:
		return false, s.withTable(cmd.Table, func(t *database.Table) error {
			return s.query(t, cmd)
		})
	default:
		return false, syntaxError("Unknown command kind %d", cmd.Kind)
	}
}

func (s *Session) withTable(name string, f func(t *database.Table) error) error {
	t, err := s.db.OpenTable(name)
	if err != nil {
		return err
	}
	err = f(t)
	closeErr := t.Close()
	if err != nil {
		return err
	}
	return closeErr
}

func (s *Session) showSchema(name string) error {
	ts, err := s.db.Schema(name)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(s.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tCOUNT\tOFFSET\tCONSTRAINTS")
	for _, attr := range ts.Attributes() {
		fmt.Fprintf(
			w,
			"%s\t%v\t%d\t%d\t%v\n",
			attr.Name,
			attr.Type,
			attr.Count,
			attr.Offset,
			attr.Constraints)
	}
	fmt.Fprintf(w, "stride: %d\n", ts.Stride())
	return w.Flush()
}

func insert(t *database.Table, assignments []Assignment) error {
	names := make([]string, len(assignments))
	texts := make([]string, len(assignments))
	for i, a := range assignments {
		names[i] = a.Name
		texts[i] = a.Value
	}
	values, err := encoding.Pack(t.Schema(), names, texts)
	if err != nil {
		return err
	}
	return t.Insert(names, values)
}

func (s *Session) query(t *database.Table, cmd *Command) error {
	names := cmd.Names
	if names == nil {
		names = tabledb.AttributeNames(t.Schema().Attributes())
	}
	conds := make([]tabledb.Condition, len(cmd.Predicates))
	for i, p := range cmd.Predicates {
		cond, err := encoding.Condition(t.Schema(), p.Name, p.Operator, p.Value)
		if err != nil {
			return err
		}
		conds[i] = cond
	}
	rs, err := t.Select(names, conds)
	if err != nil {
		return err
	}
	defer rs.Destroy()

	var iter tabledb.Iterator = rs.Scan()
	if cmd.Limit >= 0 {
		iter = executor.NewLimit(iter, cmd.Limit)
	}
	defer iter.Close()
	rows, err := tabledb.ReadAll(iter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(s.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(names, "\t"))
	for _, row := range rows {
		texts, err := encoding.FormatRow(iter.Attributes(), row)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, strings.Join(texts, "\t"))
	}
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return w.Flush()
}
