package db

import (
	"context"
	"fmt"
	"github.com/jonbodner/proteus"
	"strings"
)

// ConfigFlag is a bitmask of per-channel or per-guild bot features.
type ConfigFlag int64

const (
	ConfigAnalyzeLyrics ConfigFlag = 1 << iota
	ConfigSuggestRhymes
	ConfigShowSections
)

var flagNames = []struct {
	flag ConfigFlag
	name string
}{
	{ConfigAnalyzeLyrics, "AnalyzeLyrics"},
	{ConfigSuggestRhymes, "SuggestRhymes"},
	{ConfigShowSections, "ShowSections"},
}

func (f ConfigFlag) AnalyzeLyrics() bool {
	return f&ConfigAnalyzeLyrics > 0
}

func (f ConfigFlag) SuggestRhymes() bool {
	return f&ConfigSuggestRhymes > 0
}

func (f ConfigFlag) ShowSections() bool {
	return f&ConfigShowSections > 0
}

func (f ConfigFlag) Or(other ConfigFlag) ConfigFlag {
	return f | other
}

func (f ConfigFlag) And(other ConfigFlag) ConfigFlag {
	return f & other
}

func (f ConfigFlag) String() string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag > 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// ParseFlag looks up a single feature by name, case-insensitively.
func ParseFlag(name string) (ConfigFlag, error) {
	for _, fn := range flagNames {
		if strings.EqualFold(fn.name, name) {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("could not understand '%s' as a valid feature", name)
}

// LookupFlags returns the union of the guild-wide and channel-specific flags.
func LookupFlags(ctx context.Context, e proteus.ContextQuerier, guildID int, channelID int) (ConfigFlag, error) {
	return LookupFlagsOrDefault(ctx, e, guildID, channelID, 0)
}

// LookupFlagsOrDefault is LookupFlags for a bot with default features: a guild that has never stored a
// configuration gets defaults as its guild-wide flags.
func LookupFlagsOrDefault(ctx context.Context, e proteus.ContextQuerier, guildID int, channelID int, defaults ConfigFlag) (ConfigFlag, error) {
	chanConf, err := ChannelConfigDAO.FindByID(ctx, e, channelID)
	if err != nil {
		return 0, err
	}
	guildConf, err := GuildConfigDAO.FindByID(ctx, e, guildID)
	if err != nil {
		return 0, err
	}
	flags := guildConf.Flags
	if guildConf.GuildID == 0 {
		flags = defaults
	}
	return flags.Or(chanConf.Flags), nil
}

type ChannelConfig struct {
	ChannelID int        `prof:"channel_id"`
	Flags     ConfigFlag `prof:"flags"`
}

var ChannelConfigDAO ChannelConfigDAOImpl

type ChannelConfigDAOImpl struct {
	Upsert   func(ctx context.Context, e proteus.ContextExecutor, channelID int, flags int64) (int64, error) `proq:"q:chan_upsert" prop:"channelID,flags"`
	FindByID func(ctx context.Context, e proteus.ContextQuerier, channelID int) (ChannelConfig, error)     `proq:"q:chan_findByID" prop:"channelID"`
}

type GuildConfig struct {
	GuildID int        `prof:"guild_id"`
	Flags   ConfigFlag `prof:"flags"`
}

var GuildConfigDAO GuildConfigDAOImpl

type GuildConfigDAOImpl struct {
	Upsert   func(ctx context.Context, e proteus.ContextExecutor, config GuildConfig) (int64, error) `proq:"q:guild_upsert" prop:"config"`
	FindByID func(ctx context.Context, e proteus.ContextQuerier, guildID int) (GuildConfig, error)  `proq:"q:guild_findByID" prop:"guildID"`
}

func init() {
	ctx := context.Background()
	m := proteus.MapMapper{
		"chan_upsert": `INSERT INTO channel_config (channel_id, flags)
						VALUES (:channelID:, :flags:)
						ON CONFLICT (channel_id)
						DO UPDATE SET flags = excluded.flags`,
		"chan_findByID": `SELECT * FROM channel_config WHERE channel_id = :channelID:`,
		"guild_upsert": `INSERT INTO guild_config (guild_id, flags)
						VALUES (:config.GuildID:, :config.Flags:)
						ON CONFLICT (guild_id)
						DO UPDATE SET flags = excluded.flags`,
		"guild_findByID": `SELECT * FROM guild_config WHERE guild_id = :guildID:`,
	}
	err := proteus.ShouldBuild(ctx, &ChannelConfigDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
	err = proteus.ShouldBuild(ctx, &GuildConfigDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
}
