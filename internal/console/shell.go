// Package console implements the line interpreter behind the hbnb shell.
// Each line is either a plain command ("show User <id>") or a dot call
// ("User.show(\"<id>\")"), and the outcome is written as text.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/n1rna/hbnb-cli/internal/logger"
	"github.com/n1rna/hbnb-cli/internal/models"
)

// Prompt is shown before each line in interactive use.
const Prompt = "(hbnb) "

// Messages printed for invalid input.
const (
	MsgClassMissing     = "** class name missing **"
	MsgClassUnknown     = "** class doesn't exist **"
	MsgIDMissing        = "** instance id missing **"
	MsgNoInstance       = "** no instance found **"
	MsgAttributeMissing = "** attribute name missing **"
	MsgValueMissing     = "** value missing **"
)

// Store is what the shell needs from the record manager.
type Store interface {
	IsKnownType(typeName string) bool
	CreateNew(typeName string) (string, error)
	Find(typeName, id string) (models.Model, error)
	ListAll(filter string) ([]models.Model, error)
	Count(typeName string) (int, error)
	UpdateFields(typeName, id string, values map[string]string) error
	Remove(typeName, id string) error
}

type handler struct {
	usage string
	run   func(s *Shell, c call) bool
}

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"create":  {"create <class>: create a record, save it and print its id", (*Shell).doCreate},
		"show":    {"show <class> <id>: print a record", (*Shell).doShow},
		"destroy": {"destroy <class> <id>: delete a record", (*Shell).doDestroy},
		"all":     {"all [class]: print every record, or every record of class", (*Shell).doAll},
		"update":  {"update <class> <id> <attribute> \"<value>\": set one attribute", (*Shell).doUpdate},
		"count":   {"count <class>: print the number of records of class", (*Shell).doCount},
		"help":    {"help [command]: list commands or describe one", (*Shell).doHelp},
		"quit":    {"quit: exit the program", (*Shell).doQuit},
		"EOF":     {"EOF: exit the program", (*Shell).doQuit},
	}
}

// Shell interprets command lines against a Store.
type Shell struct {
	store Store
	out   io.Writer
}

// NewShell returns a shell that writes its output to out
func NewShell(store Store, out io.Writer) *Shell {
	return &Shell{store: store, out: out}
}

// SetOutput redirects subsequent output
func (s *Shell) SetOutput(out io.Writer) {
	s.out = out
}

// Execute runs one line and reports whether the shell should stop.
func (s *Shell) Execute(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	c, ok := parseLine(trimmed)
	if !ok {
		s.unknown(trimmed)
		return false
	}
	h, found := handlers[c.command]
	if !found {
		s.unknown(trimmed)
		return false
	}

	logger.Debug("executing %s %v", c.command, c.args)
	return h.run(s, c)
}

// Run reads lines from in until EOF or quit. With showPrompt the prompt is
// written before each line.
func (s *Shell) Run(in io.Reader, showPrompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if showPrompt {
			fmt.Fprint(s.out, Prompt)
		}
		if !scanner.Scan() {
			break
		}
		if s.Execute(scanner.Text()) {
			return nil
		}
	}
	if showPrompt {
		fmt.Fprintln(s.out)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) unknown(line string) {
	s.println("*** Unknown syntax: " + line)
}

// report prints the message for err and logs the detail.
func (s *Shell) report(err error) {
	switch {
	case errors.Is(err, models.ErrUnknownType):
		s.println(MsgClassUnknown)
	case errors.Is(err, models.ErrNotFound):
		s.println(MsgNoInstance)
	default:
		logger.Error("%v", err)
		s.println("** " + err.Error() + " **")
	}
}

// checkClass validates the class argument and prints the message on failure.
func (s *Shell) checkClass(args []string) bool {
	if len(args) == 0 {
		s.println(MsgClassMissing)
		return false
	}
	if !s.store.IsKnownType(args[0]) {
		s.println(MsgClassUnknown)
		return false
	}
	return true
}

// lookup validates class and id and returns the record.
func (s *Shell) lookup(args []string) (models.Model, bool) {
	if !s.checkClass(args) {
		return nil, false
	}
	if len(args) < 2 {
		s.println(MsgIDMissing)
		return nil, false
	}
	record, err := s.store.Find(args[0], args[1])
	if err != nil {
		s.report(err)
		return nil, false
	}
	return record, true
}

func (s *Shell) doCreate(c call) bool {
	if !s.checkClass(c.args) {
		return false
	}
	id, err := s.store.CreateNew(c.args[0])
	if err != nil {
		s.report(err)
		return false
	}
	s.println(id)
	return false
}

func (s *Shell) doShow(c call) bool {
	if record, ok := s.lookup(c.args); ok {
		s.println(record.String())
	}
	return false
}

func (s *Shell) doDestroy(c call) bool {
	if _, ok := s.lookup(c.args); !ok {
		return false
	}
	if err := s.store.Remove(c.args[0], c.args[1]); err != nil {
		s.report(err)
	}
	return false
}

func (s *Shell) doAll(c call) bool {
	filter := ""
	if len(c.args) > 0 {
		filter = c.args[0]
		if !s.store.IsKnownType(filter) {
			s.println(MsgClassUnknown)
			return false
		}
	}

	records, err := s.store.ListAll(filter)
	if err != nil {
		s.report(err)
		return false
	}
	if len(records) == 0 {
		return false
	}
	rendered := make([]string, len(records))
	for i, record := range records {
		rendered[i] = record.String()
	}
	s.println("[" + strings.Join(rendered, ", ") + "]")
	return false
}

func (s *Shell) doUpdate(c call) bool {
	if _, ok := s.lookup(c.args); !ok {
		return false
	}
	typeName, id := c.args[0], c.args[1]

	values := c.fields
	if values == nil {
		if len(c.args) < 3 {
			s.println(MsgAttributeMissing)
			return false
		}
		if len(c.args) < 4 {
			s.println(MsgValueMissing)
			return false
		}
		// Extra words after the value are ignored.
		values = map[string]string{c.args[2]: c.args[3]}
	}
	if len(values) == 0 {
		s.println(MsgAttributeMissing)
		return false
	}

	if err := s.store.UpdateFields(typeName, id, values); err != nil {
		s.report(err)
	}
	return false
}

func (s *Shell) doCount(c call) bool {
	if !s.checkClass(c.args) {
		return false
	}
	n, err := s.store.Count(c.args[0])
	if err != nil {
		s.report(err)
		return false
	}
	s.println(n)
	return false
}

func (s *Shell) doHelp(c call) bool {
	if len(c.args) > 0 {
		if h, ok := handlers[c.args[0]]; ok {
			s.println(h.usage)
		} else {
			s.println("*** No help on " + c.args[0])
		}
		return false
	}

	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	s.println()
	s.println("Documented commands (type help <topic>):")
	s.println("========================================")
	s.println(strings.Join(names, "  "))
	s.println()
	return false
}

func (s *Shell) doQuit(call) bool {
	return true
}
