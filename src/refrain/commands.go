package refrain

import (
	"errors"
	"fmt"
	"github.com/kalexmills/refrain/src/analysis"
	"github.com/kalexmills/refrain/src/refrain/db"
	"strconv"
	"strings"
)

type Operation uint8

const (
	OpHelp Operation = iota
	OpRhyme
	OpSyllables
	OpAnalyze
	OpSave
	OpShow
	OpList
	OpSection
	OpRepeat
	OpFeatureOn
	OpFeatureOff
	OpFeatureList
)

// IsAdmin reports whether the operation requires admin permissions.
func (o Operation) IsAdmin() bool {
	return o == OpFeatureOn || o == OpFeatureOff || o == OpFeatureList
}

// Command is a parsed bot command. Line is a 0-based line index; users type 1-based line numbers.
type Command struct {
	Operation   Operation
	Word        string
	Title       string
	Body        string
	Line        int
	SectionType analysis.SectionType
	Target      string
	Features    db.ConfigFlag
}

func (c Command) MentionTarget() string {
	if c.Target == "global" {
		return "global"
	}
	return fmt.Sprintf("<#%s>", c.Target)
}

// ParseCommand parses a message addressed to the bot. ok is false when content does not start with prefix.
// The first line holds the command and its arguments; any remaining lines are the lyric body.
func ParseCommand(prefix, content string) (cmd Command, ok bool, err error) {
	content = strings.TrimSpace(content)
	if content != prefix && !strings.HasPrefix(content, prefix+" ") && !strings.HasPrefix(content, prefix+"\n") {
		return Command{}, false, nil
	}
	content = strings.TrimPrefix(content, prefix)

	head, body := content, ""
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		head, body = content[:idx], content[idx+1:]
	}
	tokens := strings.Fields(head)
	if len(tokens) < 1 {
		return Command{}, true, fmt.Errorf("expected a valid command after `%s`; send `%s help` for help", prefix, prefix)
	}
	body = stripCodeFence(body)
	args := tokens[1:]

	result := Command{}
	switch strings.ToLower(tokens[0]) {
	case "help":
		result.Operation = OpHelp
	case "rhyme", "rhymes":
		result.Operation = OpRhyme
		if len(args) != 1 {
			return Command{}, true, usageError(prefix, "expected exactly one word after `rhyme`")
		}
		result.Word = args[0]
	case "syllables":
		result.Operation = OpSyllables
		result.Body = bodyOrInline(body, args)
		if result.Body == "" {
			return Command{}, true, usageError(prefix, "expected lyrics after `syllables`")
		}
	case "analyze":
		result.Operation = OpAnalyze
		result.Body = bodyOrInline(body, args)
		if result.Body == "" {
			return Command{}, true, usageError(prefix, "expected lyrics after `analyze`")
		}
	case "save":
		result.Operation = OpSave
		if len(args) == 0 {
			return Command{}, true, usageError(prefix, "expected a title after `save`")
		}
		if strings.TrimSpace(body) == "" {
			return Command{}, true, usageError(prefix, "expected lyrics on the lines after `save <title>`")
		}
		result.Title = strings.Join(args, " ")
		result.Body = body
	case "show":
		result.Operation = OpShow
		if len(args) == 0 {
			return Command{}, true, usageError(prefix, "expected a title after `show`")
		}
		result.Title = strings.Join(args, " ")
	case "list":
		result.Operation = OpList
	case "section", "repeat":
		result.Operation = OpSection
		if strings.ToLower(tokens[0]) == "repeat" {
			result.Operation = OpRepeat
		}
		if len(args) < 3 {
			return Command{}, true, usageError(prefix, fmt.Sprintf("expected a title, line number and section type after `%s`", tokens[0]))
		}
		result.Title = strings.Join(args[:len(args)-2], " ")
		line, err := strconv.Atoi(args[len(args)-2])
		if err != nil || line < 1 {
			return Command{}, true, fmt.Errorf("couldn't parse '%s' as a line number", args[len(args)-2])
		}
		result.Line = line - 1
		result.SectionType, err = analysis.ParseSectionType(args[len(args)-1])
		if err != nil {
			return Command{}, true, err
		}
	case "feature":
		if len(args) < 1 {
			return Command{}, true, usageError(prefix, "expected `on`, `off` or `list` after `feature`")
		}
		return parseFeatureCommand(prefix, args)
	default:
		return Command{}, true, fmt.Errorf("could not understand command %s; send `%s help` for help", tokens[0], prefix)
	}
	return result, true, nil
}

func parseFeatureCommand(prefix string, args []string) (Command, bool, error) {
	result := Command{}
	switch strings.ToLower(args[0]) {
	case "on":
		result.Operation = OpFeatureOn
		if len(args) < 3 {
			return Command{}, true, usageError(prefix, "expected a target and list of features after `feature on`")
		}
	case "off":
		result.Operation = OpFeatureOff
		if len(args) < 3 {
			return Command{}, true, usageError(prefix, "expected a target and list of features after `feature off`")
		}
	case "list":
		result.Operation = OpFeatureList
		if len(args) < 2 {
			return Command{}, true, usageError(prefix, "expected a target after `feature list`")
		}
	default:
		return Command{}, true, fmt.Errorf("could not understand command feature %s; send `%s help` for help", args[0], prefix)
	}

	target, err := parseTarget(args[1])
	if err != nil {
		return Command{}, true, err
	}
	result.Target = target

	for _, name := range args[2:] {
		flag, err := db.ParseFlag(name)
		if err != nil {
			return Command{}, true, err
		}
		result.Features |= flag
	}
	return result, true, nil
}

// parseTarget accepts `global` or a channel mention and returns `global` or the channel ID.
func parseTarget(target string) (string, error) {
	if target == "global" {
		return target, nil
	}
	if !strings.HasPrefix(target, "<#") || !strings.HasSuffix(target, ">") {
		return "", fmt.Errorf("couldn't parse target '%s' as valid target", target)
	}
	id, err := strconv.Atoi(target[2 : len(target)-1])
	if err != nil {
		return "", fmt.Errorf("couldn't parse target '%s' as valid channel mention", target)
	}
	return strconv.Itoa(id), nil
}

// bodyOrInline lets short lyrics follow the command on the same line.
func bodyOrInline(body string, args []string) string {
	if strings.TrimSpace(body) != "" {
		return body
	}
	return strings.Join(args, " ")
}

// stripCodeFence removes a surrounding ``` fence, including an optional language tag.
func stripCodeFence(body string) string {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return body
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), "```")
	if idx := strings.IndexByte(inner, '\n'); idx >= 0 && !strings.ContainsAny(inner[:idx], " \t") {
		inner = inner[idx+1:]
	}
	return strings.TrimSuffix(inner, "\n")
}

func usageError(prefix, msg string) error {
	return errors.New(msg + fmt.Sprintf("; send `%s help` for help", prefix))
}

var Help = `Lyrics go on the lines after the command. Line numbers start at 1.
  ~~~{prefix} rhyme [word]~~~ - suggests rhymes for a word
  ~~~{prefix} syllables [lyrics]~~~ - counts syllables on each line
  ~~~{prefix} analyze [lyrics]~~~ - shows sections, syllable counts and rhyming lines
  ~~~{prefix} save [title]~~~ - saves the lyrics under a title for this server
  ~~~{prefix} show [title]~~~ - shows a saved sheet
  ~~~{prefix} list~~~ - lists the saved sheets for this server
  ~~~{prefix} section [title] [line] [type]~~~ - marks the section starting at a line
  ~~~{prefix} repeat [title] [line] [type]~~~ - copies the closest earlier section of that type to a line; use the line after the last one to add it at the end

Section types are verse, chorus, bridge, pre-chorus, intro, outro and other.
`

var AdminHelp = `All commands must be sent in the guild they are meant to apply to.
  ~~~{prefix} feature on [target] [feature feature...]~~~
  ~~~{prefix} feature off [target] [feature feature...]~~~
  ~~~{prefix} feature list [target]~~~

~~~[target]~~~ can be either a channel mention or ~~~global~~~ to enable features for every channel in the guild.
~~~[feature feature...]~~~ is a space-separated list of features from the below list.

   - ~~~AnalyzeLyrics~~~ - replies to any multi-line message with its analysis
   - ~~~SuggestRhymes~~~ - adds rhyme suggestions for the last line's end word to each analysis
   - ~~~ShowSections~~~ - includes section labels in each analysis
`

// HelpText fills in the command prefix for the help messages.
func HelpText(prefix string, admin bool) string {
	text := Help
	if admin {
		text += "\n" + AdminHelp
	}
	return strings.ReplaceAll(strings.ReplaceAll(text, "~~~", "`"), "{prefix}", prefix)
}
