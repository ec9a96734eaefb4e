package refrain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/kalexmills/refrain/src/analysis"
	"github.com/kalexmills/refrain/src/refrain/db"
	"github.com/kalexmills/refrain/src/rhyme"
	"log"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
)

const DefaultCommandPrefix = "!refrain"

// maxSuggestions is how many rhymes are appended to an automatic analysis.
const maxSuggestions = 12

var errRhymesUnavailable = errors.New("rhyme suggestions are unavailable")

type Config struct {
	Token           string
	CommandPrefix   string
	MaxReplyLines   int
	DefaultFeatures db.ConfigFlag

	Debug bool
}

func (c Config) String() string {
	return fmt.Sprintf("\tCommandPrefix: %s\n\tMaxReplyLines: %d\n\tDefaultFeatures: %s\n\tDebug: %t\n",
		c.CommandPrefix, c.MaxReplyLines, c.DefaultFeatures, c.Debug)
}

type Refrain struct {
	session *discordgo.Session
	config  Config
	db      *sql.DB
	dict    *rhyme.Handle
	sheets  *SheetStore

	mut     sync.Mutex
	dmCache map[string]*discordgo.Channel
}

func NewRefrain(config Config, sqlDB *sql.DB, dict *rhyme.Handle) *Refrain {
	if config.CommandPrefix == "" {
		config.CommandPrefix = DefaultCommandPrefix
	}
	log.Printf("Refrain Bot Config:\n%v", config)
	return &Refrain{
		config:  config,
		db:      sqlDB,
		dict:    dict,
		sheets:  NewSheetStore(sqlDB),
		dmCache: make(map[string]*discordgo.Channel),
	}
}

func (r *Refrain) Open() error {
	var err error
	r.session, err = discordgo.New("Bot " + r.config.Token)
	if err != nil {
		log.Println("error creating Discord session,", err)
		return err
	}

	if r.config.Debug {
		r.session.LogLevel = discordgo.LogDebug
	}

	r.session.AddHandler(r.ReceiveNewMessage)
	r.session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	err = r.session.Open()
	if err != nil {
		log.Println("error opening connection,", err)
		return err
	}
	return nil
}

func (r *Refrain) Close() error {
	return r.session.Close()
}

func (r *Refrain) ReceiveNewMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("recovered from panic on content, %s, panicking on: %v\n%s", oneLine(m.Content), rec, debug.Stack())
			panic(rec)
		}
	}()
	if m.Author == nil || m.Author.Bot {
		return
	}
	cmd, ok, err := ParseCommand(r.config.CommandPrefix, m.Content)
	if !ok {
		r.HandleLyrics(s, m.Message)
		return
	}
	if err != nil {
		r.reply(s, m.Message, err.Error())
		return
	}
	if cmd.Operation.IsAdmin() {
		r.HandleAdminCommand(s, m.Message, cmd)
		return
	}
	if cmd.Operation == OpHelp {
		perms, err := r.Permissions(s, m.Message)
		r.reply(s, m.Message, HelpText(r.config.CommandPrefix, err == nil && perms&adminCommandPerms != 0))
		return
	}

	guildID, _ := strconv.Atoi(m.GuildID)
	channelID, _ := strconv.Atoi(m.ChannelID)
	resp, err := r.Respond(context.Background(), Request{
		GuildID:   guildID,
		ChannelID: channelID,
		AuthorID:  m.Author.ID,
		Command:   cmd,
	})
	if err != nil {
		r.reply(s, m.Message, err.Error())
		return
	}
	r.reply(s, m.Message, resp)
}

// HandleLyrics replies with an analysis of any multi-line message when the channel has AnalyzeLyrics on.
func (r *Refrain) HandleLyrics(s *discordgo.Session, m *discordgo.Message) {
	if !looksLikeLyrics(m.Content) {
		return
	}
	guildID, _ := strconv.Atoi(m.GuildID)
	channelID, _ := strconv.Atoi(m.ChannelID)
	flags, err := db.LookupFlagsOrDefault(context.Background(), r.db, guildID, channelID, r.config.DefaultFeatures)
	if err != nil {
		log.Println("could not look up features for channel,", err)
		return
	}
	if !flags.AnalyzeLyrics() {
		return
	}
	r.reply(s, m, r.renderWithFeatures(analysis.Analyze(m.Content, nil), flags))
}

// Request is a non-admin command together with where it was sent.
type Request struct {
	GuildID   int
	ChannelID int
	AuthorID  string
	Command   Command
}

// Respond runs a non-admin command and returns the reply text. Errors are meant to be shown to the user.
func (r *Refrain) Respond(ctx context.Context, req Request) (string, error) {
	cmd := req.Command
	switch cmd.Operation {
	case OpHelp:
		return HelpText(r.config.CommandPrefix, false), nil
	case OpRhyme:
		d, err := r.dict.Get()
		if err != nil {
			log.Println("could not load rhyme dictionary,", err)
			return "", errRhymesUnavailable
		}
		return RenderRhymes(rhyme.Normalize(cmd.Word), d.Rhymes(cmd.Word)), nil
	case OpSyllables:
		return RenderSyllables(analysis.Parse(cmd.Body)), nil
	case OpAnalyze:
		flags, err := db.LookupFlagsOrDefault(ctx, r.db, req.GuildID, req.ChannelID, r.config.DefaultFeatures)
		if err != nil {
			log.Println("could not look up features for channel,", err)
		}
		return r.renderWithFeatures(analysis.Analyze(cmd.Body, nil), flags|db.ConfigShowSections), nil
	}

	if req.GuildID == 0 {
		return "", errors.New("sheets can only be used in a server")
	}
	switch cmd.Operation {
	case OpSave:
		sheet, changed, err := r.sheets.Save(ctx, req.GuildID, req.AuthorID, cmd.Title, cmd.Body)
		if err != nil {
			return "", r.storageError(err)
		}
		if !changed {
			return fmt.Sprintf("`%s` is already up to date", sheet.Title), nil
		}
		return fmt.Sprintf("saved `%s` with %d sections", sheet.Title, len(sheet.SectionTypes)), nil
	case OpShow:
		sheet, err := r.sheets.Find(ctx, req.GuildID, cmd.Title)
		if err != nil {
			return "", r.storageError(err)
		}
		return r.renderSheet(sheet), nil
	case OpList:
		sheets, err := r.sheets.List(ctx, req.GuildID)
		if err != nil {
			return "", r.storageError(err)
		}
		return RenderSheetList(sheets), nil
	case OpSection:
		sheet, err := r.sheets.SetSection(ctx, req.GuildID, cmd.Title, cmd.Line, cmd.SectionType)
		if err != nil {
			return "", r.storageError(err)
		}
		return r.renderSheet(sheet), nil
	case OpRepeat:
		sheet, repeated, err := r.sheets.Repeat(ctx, req.GuildID, cmd.Title, cmd.Line, cmd.SectionType)
		if err != nil {
			return "", r.storageError(err)
		}
		note := fmt.Sprintf("copied lines %d-%d to line %d\n", repeated.Source.Start+1, repeated.Source.EndExclusive, repeated.Target+1)
		return note + r.renderSheet(sheet), nil
	}
	return "", fmt.Errorf("could not understand command; send `%s help` for help", r.config.CommandPrefix)
}

func (r *Refrain) renderSheet(sheet LyricSheet) string {
	opts := RenderOptions{Title: sheet.Title, ShowSections: true, MaxLines: r.config.MaxReplyLines}
	return RenderAnalysis(sheet.Analyze(), opts)
}

func (r *Refrain) renderWithFeatures(a analysis.Analysis, flags db.ConfigFlag) string {
	opts := RenderOptions{ShowSections: flags.ShowSections(), MaxLines: r.config.MaxReplyLines}
	out := RenderAnalysis(a, opts)
	if !flags.SuggestRhymes() {
		return out
	}
	word, ok := a.LastEndWord()
	if !ok {
		return out
	}
	d, err := r.dict.Get()
	if err != nil {
		log.Println("could not load rhyme dictionary,", err)
		return out + "\n" + errRhymesUnavailable.Error()
	}
	rhymes := d.Rhymes(word)
	if len(rhymes) > maxSuggestions {
		rhymes = rhymes[:maxSuggestions]
	}
	return out + "\n" + RenderRhymes(word, rhymes)
}

// storageError hides database failures from users; validation errors are passed through.
func (r *Refrain) storageError(err error) error {
	if errors.Is(err, ErrStorage) {
		log.Println("could not access sheet storage,", err)
		return errors.New("something went wrong while accessing saved sheets")
	}
	return err
}

func (r *Refrain) reply(s *discordgo.Session, m *discordgo.Message, content string) {
	ref := &discordgo.MessageReference{MessageID: m.ID, ChannelID: m.ChannelID, GuildID: m.GuildID}
	_, err := s.ChannelMessageSendReply(m.ChannelID, content, ref)
	if err != nil {
		log.Println("could not send reply,", err)
	}
}

func (r *Refrain) DM(s *discordgo.Session, m *discordgo.Message, content string) {
	c, err := r.createDMChannel(s, m.Author.ID)
	if err != nil {
		log.Println("could not create user DM channel,", err)
		return
	}
	_, err = s.ChannelMessageSend(c.ID, content)
	if err != nil {
		log.Println("could not send message to user DM channel,", err)
	}
}

func (r *Refrain) createDMChannel(s *discordgo.Session, authorID string) (*discordgo.Channel, error) {
	r.mut.Lock()
	defer r.mut.Unlock()
	if c, ok := r.dmCache[authorID]; ok {
		return c, nil
	}
	c, err := s.UserChannelCreate(authorID)
	if err != nil {
		return nil, err
	}
	log.Println("retrieved new DM channel for user", authorID)
	r.dmCache[authorID] = c
	return c, nil
}

// looksLikeLyrics is true for messages with at least two lyric lines.
func looksLikeLyrics(content string) bool {
	count := 0
	for _, line := range analysis.Parse(content) {
		if line.Type == analysis.LineLyric {
			count++
		}
	}
	return count >= 2
}

func oneLine(str string) string {
	return strings.ReplaceAll(str, "\n", "\\n")
}
