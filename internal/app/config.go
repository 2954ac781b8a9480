package app

import (
	"fmt"
	"strconv"
	"strings"

	coreconfig "github.com/m3rciful/groupbot/core/config"
	"github.com/m3rciful/groupbot/internal/bot"
)

const (
	defaultBotName       = "MyBot"
	defaultUpdateChannel = "https://t.me/YourUpdateChannel"
	defaultSupport       = "https://t.me/YourSupportChannel"
	defaultGroup         = "https://t.me/YourGroup"
)

// LinksConfig holds the URL buttons of the welcome keyboard.
type LinksConfig struct {
	UpdateChannel string `yaml:"update_channel" envconfig:"UPDATE_CHANNEL_URL"`
	Support       string `yaml:"support" envconfig:"SUPPORT_URL"`
	Group         string `yaml:"group" envconfig:"GROUP_URL"`
}

// BotConfig holds the settings specific to this bot.
type BotConfig struct {
	Name string `yaml:"name" envconfig:"BOT_NAME"`
	// The *Value fields are read as text so that a blank value
	// (OWNER_ID= in a .env file) counts as unset.
	OwnerIDValue string      `yaml:"owner_id" envconfig:"OWNER_ID"`
	ChatOnValue  string      `yaml:"chat_on" envconfig:"CHAT_ON"`
	ResetValue   string      `yaml:"reset_chat_on_message" envconfig:"RESET_CHAT_ON_MESSAGE"`
	Links        LinksConfig `yaml:"links"`

	// OwnerID is 0 when no owner is configured (blank, unset or 0).
	OwnerID int64 `yaml:"-" ignored:"true"`
	// ChatOn is the global group reply switch; on unless set to false.
	ChatOn             bool `yaml:"-" ignored:"true"`
	ResetChatOnMessage bool `yaml:"-" ignored:"true"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Bot BotConfig `yaml:"bot"`
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads the YAML file at path, applies the environment and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalizeBot(&cfg.Bot); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeBot(b *BotConfig) error {
	b.OwnerID = 0
	if v := strings.TrimSpace(b.OwnerIDValue); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 0 {
			return fmt.Errorf("bot.owner_id must be a positive user id (OWNER_ID), got %q", v)
		}
		b.OwnerID = id
	}
	var err error
	if b.ChatOn, err = parseFlag(b.ChatOnValue, true); err != nil {
		return fmt.Errorf("bot.chat_on must be true or false (CHAT_ON), got %q", b.ChatOnValue)
	}
	if b.ResetChatOnMessage, err = parseFlag(b.ResetValue, false); err != nil {
		return fmt.Errorf("bot.reset_chat_on_message must be true or false (RESET_CHAT_ON_MESSAGE), got %q", b.ResetValue)
	}
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		b.Name = defaultBotName
	}
	defaultString(&b.Links.UpdateChannel, defaultUpdateChannel)
	defaultString(&b.Links.Support, defaultSupport)
	defaultString(&b.Links.Group, defaultGroup)
	return nil
}

func parseFlag(v string, def bool) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func defaultString(v *string, def string) {
	if strings.TrimSpace(*v) == "" {
		*v = def
	}
}

// Settings converts the bot section into handler settings. username is the
// account name reported by Telegram.
func (b BotConfig) Settings(username string) bot.Settings {
	return bot.Settings{
		BotName:            b.Name,
		BotUsername:        username,
		OwnerID:            b.OwnerID,
		ChatOn:             b.ChatOn,
		ResetChatOnMessage: b.ResetChatOnMessage,
		Links: bot.Links{
			UpdateChannel: b.Links.UpdateChannel,
			Support:       b.Links.Support,
			Group:         b.Links.Group,
		},
	}
}
