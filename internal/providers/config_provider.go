package providers

import (
	"fmt"
	"path/filepath"
	"sbd/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "SBD_LOG_LEVEL")
	viper.BindEnv("poll.interval", "SBD_POLL_INTERVAL")
	viper.BindEnv("twitch.clientId", "SBD_TWITCH_CLIENT_ID")
	viper.BindEnv("twitch.token", "SBD_TWITCH_TOKEN")
	viper.BindEnv("twitch.followerId", "SBD_FOLLOWER_ID")
	viper.BindEnv("cache.enabled", "SBD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "SBD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.Twitch.BaseURL == "" {
		conf.Twitch.BaseURL = "https://api.twitch.tv/helix"
	}
	if conf.Twitch.Timeout <= 0 {
		conf.Twitch.Timeout = 15 * time.Second
	}
	if conf.Poll.InitialDelay <= 0 {
		conf.Poll.InitialDelay = time.Second
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StreamBadgeDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
