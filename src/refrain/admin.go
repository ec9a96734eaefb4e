package refrain

import (
	"context"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/kalexmills/refrain/src/refrain/db"
	"log"
	"strconv"
)

// adminCommandPerms is a bitmask for the min permissions required to send admin commands. If any flag is set, the
// user can send Refrain admin commands.
const adminCommandPerms = discordgo.PermissionAdministrator | discordgo.PermissionManageChannels | discordgo.PermissionManageServer

func (r *Refrain) HandleAdminCommand(s *discordgo.Session, m *discordgo.Message, command Command) {
	perms, err := r.Permissions(s, m)
	if err != nil {
		log.Println("could not retrieve permissions for user, ignoring admin command,", err)
		return
	}
	if perms&adminCommandPerms == 0 {
		if r.config.Debug {
			log.Printf("could not verify admin permissions, found perms %d, expected %d", perms, adminCommandPerms)
		}
		r.DM(s, m, fmt.Sprintf("You do not have permissions to manage Refrain in <#%s>", m.ChannelID))
		return
	}
	gid, err := strconv.Atoi(m.GuildID)
	if err != nil {
		log.Println("could not parse guildID as integer,", m.GuildID)
		return
	}
	reply, err := r.AdminRespond(context.Background(), gid, command)
	if err != nil {
		log.Println("could not run admin command,", err)
		r.reply(s, m, "something went wrong while updating features")
		return
	}
	r.reply(s, m, reply)
}

// AdminRespond runs a feature command for a guild. The caller has already checked permissions.
func (r *Refrain) AdminRespond(ctx context.Context, guildID int, command Command) (string, error) {
	switch command.Operation {
	case OpFeatureOn:
		if err := r.updateFeatures(ctx, guildID, command, EnableFeatures); err != nil {
			return "", err
		}
		return fmt.Sprintf("Enabled features %s for target %s", command.Features, command.MentionTarget()), nil
	case OpFeatureOff:
		if err := r.updateFeatures(ctx, guildID, command, DisableFeatures); err != nil {
			return "", err
		}
		return fmt.Sprintf("Disabled features %s for target %s", command.Features, command.MentionTarget()), nil
	case OpFeatureList:
		flags, err := r.currentFeatures(ctx, guildID, command.Target)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Features enabled for target %s: %s", command.MentionTarget(), flags), nil
	}
	return HelpText(r.config.CommandPrefix, true), nil
}

func (r *Refrain) Permissions(s *discordgo.Session, m *discordgo.Message) (int64, error) {
	g, err := s.Guild(m.GuildID)
	if err != nil {
		return 0, err
	}
	if g.OwnerID == m.Author.ID {
		return discordgo.PermissionAll, nil
	}
	member, err := s.GuildMember(m.GuildID, m.Author.ID)
	if err != nil {
		return 0, err
	}
	roles, err := s.GuildRoles(m.GuildID)
	if err != nil {
		return 0, err
	}
	roleMap := make(map[string]int64)
	for _, role := range roles {
		roleMap[role.ID] = role.Permissions
	}
	// the @everyone role shares its ID with the guild.
	permissions := roleMap[m.GuildID]
	for _, role := range member.Roles {
		permissions |= roleMap[role]
	}
	if permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator {
		return discordgo.PermissionAll, nil
	}
	return permissions, nil
}

type featureMutator func(db.ConfigFlag, db.ConfigFlag) db.ConfigFlag

func EnableFeatures(current db.ConfigFlag, feats db.ConfigFlag) db.ConfigFlag {
	return current.Or(feats)
}

func DisableFeatures(current db.ConfigFlag, feats db.ConfigFlag) db.ConfigFlag {
	return current.And(^feats) // and with bitwise not
}

// currentFeatures reports stored flags. A guild without stored flags reports the bot defaults.
func (r *Refrain) currentFeatures(ctx context.Context, guildID int, target string) (db.ConfigFlag, error) {
	if target == "global" {
		conf, err := db.GuildConfigDAO.FindByID(ctx, r.db, guildID)
		if err != nil {
			return 0, fmt.Errorf("could not read guild config from database: %w", err)
		}
		if conf.GuildID == 0 {
			return r.config.DefaultFeatures, nil
		}
		return conf.Flags, nil
	}
	cid, err := strconv.Atoi(target)
	if err != nil {
		return 0, fmt.Errorf("could not parse channelID %s as integer: %w", target, err)
	}
	conf, err := db.ChannelConfigDAO.FindByID(ctx, r.db, cid)
	if err != nil {
		return 0, fmt.Errorf("could not read channel config from database: %w", err)
	}
	return conf.Flags, nil
}

func (r *Refrain) updateFeatures(ctx context.Context, guildID int, command Command, mutator featureMutator) error {
	current, err := r.currentFeatures(ctx, guildID, command.Target) // read
	if err != nil {
		return err
	}
	updated := mutator(current, command.Features) // modify

	switch command.Target {
	case "global":
		_, err = db.GuildConfigDAO.Upsert(ctx, r.db, db.GuildConfig{GuildID: guildID, Flags: updated}) // write
		if err != nil {
			return fmt.Errorf("could not update guild features: %w", err)
		}
	default: // channel ID (target was verified by the parser)
		cid, _ := strconv.Atoi(command.Target)
		_, err = db.ChannelConfigDAO.Upsert(ctx, r.db, cid, int64(updated)) // write
		if err != nil {
			return fmt.Errorf("could not update channel features: %w", err)
		}
	}
	return nil
}
