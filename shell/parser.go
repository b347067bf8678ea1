// Package shell implements the line-oriented command language used by the
// interactive tabledb shell.
package shell

import (
	"strconv"
	"strings"

	"github.com/robot-dreams/tabledb"
)

type Kind int

const (
	Help Kind = iota
	Exit
	ListTables
	ShowSchema
	CreateTable
	Load
	Insert
	Select
)

// Assignment is a name=value pair from an insert.
type Assignment struct {
	Name  string
	Value string
}

// Predicate is an unencoded condition from a select's where clause.
type Predicate struct {
	Name     string
	Operator tabledb.Operator
	Value    string
}

type Command struct {
	Kind  Kind
	Table string

	// CreateTable
	Attributes []tabledb.Attribute

	// Load
	Path string

	// Insert
	Assignments []Assignment

	// Select; nil Names means every attribute, and a negative Limit means
	// no limit.
	Names      []string
	Predicates []Predicate
	Limit      int
}

func syntaxError(format string, args ...interface{}) error {
	return tabledb.Errorf(tabledb.InvalidArgument, format, args...)
}

// tokenize splits line on whitespace.  Double quotes group characters
// (including whitespace) into the current token and may be escaped with a
// backslash inside quotes.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	started := false
	inQuote := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case inQuote && ch == '\\' && i+1 < len(line):
			i++
			current.WriteByte(line[i])
		case ch == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (ch == ' ' || ch == '\t'):
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteByte(ch)
			started = true
		}
	}
	if inQuote {
		return nil, syntaxError("Unterminated quote in %q", line)
	}
	if started {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

func Parse(line string) (*Command, error) {
	tokens, err := tokenize(strings.TrimSpace(line))
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, syntaxError("Empty command")
	}
	args := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case ".help":
		return &Command{Kind: Help}, nil
	case ".exit", ".quit":
		return &Command{Kind: Exit}, nil
	case ".tables":
		return &Command{Kind: ListTables}, nil
	case ".schema":
		if len(args) != 1 {
			return nil, syntaxError("Usage: .schema TABLE")
		}
		return &Command{Kind: ShowSchema, Table: args[0]}, nil
	case ".create":
		return parseCreate(args)
	case ".load":
		if len(args) != 2 {
			return nil, syntaxError("Usage: .load TABLE FILE.csv")
		}
		return &Command{Kind: Load, Table: args[0], Path: args[1]}, nil
	case "insert":
		return parseInsert(args)
	case "select":
		return parseSelect(args)
	default:
		return nil, syntaxError("Unknown command '%s'; try .help", tokens[0])
	}
}

// ParseAttribute parses an attribute definition of the form
// name:type[:count][:nn][:uq].
func ParseAttribute(def string) (tabledb.Attribute, error) {
	parts := strings.Split(def, ":")
	if len(parts) < 2 {
		return tabledb.Attribute{}, syntaxError(
			"Attribute '%s' must look like name:type[:count][:nn][:uq]",
			def)
	}
	type_, err := tabledb.ParseAttributeType(parts[1])
	if err != nil {
		return tabledb.Attribute{}, err
	}
	attr := tabledb.Attribute{
		Name:  parts[0],
		Type:  type_,
		Count: 1,
	}
	for i, part := range parts[2:] {
		switch strings.ToLower(part) {
		case "nn", "notnull":
			attr.Constraints |= tabledb.NotNull
		case "uq", "unique":
			attr.Constraints |= tabledb.Unique
		default:
			count, err := strconv.ParseUint(part, 10, 64)
			if err != nil || i != 0 {
				return tabledb.Attribute{}, syntaxError(
					"Unexpected '%s' in attribute '%s'",
					part,
					def)
			}
			attr.Count = count
		}
	}
	return attr, nil
}

func parseCreate(args []string) (*Command, error) {
	if len(args) < 2 {
		return nil, syntaxError("Usage: .create TABLE name:type[:count][:nn][:uq] ...")
	}
	cmd := &Command{Kind: CreateTable, Table: args[0]}
	for _, def := range args[1:] {
		attr, err := ParseAttribute(def)
		if err != nil {
			return nil, err
		}
		cmd.Attributes = append(cmd.Attributes, attr)
	}
	return cmd, nil
}

func parseInsert(args []string) (*Command, error) {
	if len(args) < 2 {
		return nil, syntaxError("Usage: insert TABLE name=value ...")
	}
	cmd := &Command{Kind: Insert, Table: args[0]}
	for _, arg := range args[1:] {
		i := strings.IndexByte(arg, '=')
		if i <= 0 {
			return nil, syntaxError("Expected name=value; got '%s'", arg)
		}
		cmd.Assignments = append(cmd.Assignments, Assignment{
			Name:  arg[:i],
			Value: arg[i+1:],
		})
	}
	return cmd, nil
}

var operatorPrefixes = []string{"!=", "=", ">", "<", "~"}

func parsePredicate(arg string) (Predicate, error) {
	i := strings.IndexAny(arg, "!=<>~")
	if i <= 0 {
		return Predicate{}, syntaxError("Expected a condition; got '%s'", arg)
	}
	for _, prefix := range operatorPrefixes {
		if strings.HasPrefix(arg[i:], prefix) {
			op, err := tabledb.ParseOperator(prefix)
			if err != nil {
				return Predicate{}, err
			}
			return Predicate{
				Name:     arg[:i],
				Operator: op,
				Value:    arg[i+len(prefix):],
			}, nil
		}
	}
	return Predicate{}, syntaxError("Expected a condition; got '%s'", arg)
}

func parseSelect(args []string) (*Command, error) {
	if len(args) < 1 {
		return nil, syntaxError("Usage: select TABLE [a,b|*] [where a=v and ...] [limit n]")
	}
	cmd := &Command{Kind: Select, Table: args[0], Limit: -1}
	args = args[1:]

	var names []string
	for len(args) > 0 && !isKeyword(args[0]) {
		names = append(names, args[0])
		args = args[1:]
	}
	if len(names) > 0 && !(len(names) == 1 && names[0] == "*") {
		cmd.Names = []string{}
		for _, name := range strings.Split(strings.Join(names, ""), ",") {
			if name == "" {
				return nil, syntaxError("Empty attribute name in '%s'", strings.Join(names, " "))
			}
			cmd.Names = append(cmd.Names, name)
		}
	}

	if len(args) > 0 && strings.EqualFold(args[0], "where") {
		args = args[1:]
		for {
			if len(args) == 0 {
				return nil, syntaxError("Expected a condition after 'where'/'and'")
			}
			p, err := parsePredicate(args[0])
			if err != nil {
				return nil, err
			}
			cmd.Predicates = append(cmd.Predicates, p)
			args = args[1:]
			if len(args) == 0 || !strings.EqualFold(args[0], "and") {
				break
			}
			args = args[1:]
		}
	}

	if len(args) > 0 && strings.EqualFold(args[0], "limit") {
		if len(args) < 2 {
			return nil, syntaxError("Expected a number after 'limit'")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return nil, syntaxError("Invalid limit '%s'", args[1])
		}
		cmd.Limit = n
		args = args[2:]
	}
	if len(args) > 0 {
		return nil, syntaxError("Unexpected '%s'", strings.Join(args, " "))
	}
	return cmd, nil
}

func isKeyword(token string) bool {
	return strings.EqualFold(token, "where") || strings.EqualFold(token, "limit")
}
