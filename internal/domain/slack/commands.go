package slack

import (
	"fmt"
	"strings"
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
)

type CommandType string

const (
	CmdAdd  CommandType = "add"
	CmdList CommandType = "list"
	CmdHelp CommandType = "help"
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdHelp}, nil
	}

	cmd := &Command{
		Raw: text,
	}

	switch strings.ToLower(parts[0]) {
	case "add", "tambah", "jadwalin":
		cmd.Type = CmdAdd
	case "list", "ls", "cek":
		cmd.Type = CmdList
	case "help", "bantuan":
		cmd.Type = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	if len(parts) > 1 {
		cmd.Args = parts[1:]
	}

	return cmd, nil
}

// dateAliases maps the Indonesian day words onto the keywords the service understands.
var dateAliases = map[string]string{
	"today":    "today",
	"tomorrow": "tomorrow",
	"hariini":  "today",
	"besok":    "tomorrow",
}

// IsDateArg reports whether arg is a YYYY-MM-DD date or a day keyword.
func IsDateArg(arg string) bool {
	if _, ok := dateAliases[strings.ToLower(arg)]; ok {
		return true
	}
	_, err := time.Parse(domain.DateLayout, arg)
	return err == nil
}

func normalizeDate(arg string) string {
	if alias, ok := dateAliases[strings.ToLower(arg)]; ok {
		return alias
	}
	return arg
}

// ParseAddArgs reads "HH:MM [date] <person> <activity...>".
func ParseAddArgs(args []string) (entity.EventInput, error) {
	var input entity.EventInput

	if len(args) < 3 {
		return input, fmt.Errorf("%w: usage is `/jadwal add HH:MM [YYYY-MM-DD|today|tomorrow] <person> <activity>`", domain.ErrInvalidInput)
	}

	input.Time = args[0]
	rest := args[1:]

	if IsDateArg(rest[0]) {
		input.Date = normalizeDate(rest[0])
		rest = rest[1:]
	}
	if len(rest) < 2 {
		return input, fmt.Errorf("%w: both a person and an activity are required", domain.ErrInvalidInput)
	}

	input.Person = rest[0]
	input.Activity = strings.Join(rest[1:], " ")

	return input, nil
}

// ParseListArgs reads "[date] [person|all]" in either order.
func ParseListArgs(args []string) (date, person string) {
	for _, arg := range args {
		if date == "" && IsDateArg(arg) {
			date = normalizeDate(arg)
			continue
		}
		if person == "" {
			person = arg
		}
	}
	return date, person
}

func GetHelpText() string {
	return `*Available Commands:*

*Schedules:*
• ` + "`/jadwal add HH:MM [YYYY-MM-DD|today|tomorrow] PERSON ACTIVITY`" + ` - Record a schedule (ex: ` + "`/jadwal add 14:00 tomorrow bunga piano lesson`" + `)
• ` + "`/jadwal list [YYYY-MM-DD|today|tomorrow] [PERSON|all]`" + ` - Show the schedules of a day

*Reminders:*
Everybody gets a summary of their day every morning, then reminders 30, 10 and 5 minutes before each schedule and one when it starts.

• ` + "`/jadwal help`" + ` - Show this message`
}
