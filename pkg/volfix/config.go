package volfix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	funk "github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/stalexteam/volfix/pkg/volfix/util"
)

// CanonicalConfig provides application-wide access to configuration fields
// loaded from the optional volfix.yaml and VOLFIX_* environment variables
type CanonicalConfig struct {
	Verbose      bool
	SessionMatch string
	Notify       bool

	DeviceAliases  map[string]string
	SessionAliases map[string]string

	logger     *zap.SugaredLogger
	configFile string
	userConfig *viper.Viper
}

const (
	userConfigName = "volfix"
	userConfigPath = "."

	configType = "yaml"
	envPrefix  = "VOLFIX"

	configKey_Verbose        = "verbose"
	configKey_SessionMatch   = "session_match"
	configKey_Notify         = "notify"
	configKey_DeviceAliases  = "device_aliases"
	configKey_SessionAliases = "session_aliases"

	default_SessionMatch = MatchExact
)

// NewConfig creates a config instance. An empty configFile means the usual
// search locations are used
func NewConfig(logger *zap.SugaredLogger, configFile string) (*CanonicalConfig, error) {
	logger = logger.Named("config")

	cc := &CanonicalConfig{
		logger:     logger,
		configFile: configFile,
	}

	userConfig := viper.New()
	userConfig.SetConfigType(configType)

	if configFile != "" {
		userConfig.SetConfigFile(configFile)
	} else {
		userConfig.SetConfigName(userConfigName)
		userConfig.AddConfigPath(userConfigPath)

		if dir, err := os.UserConfigDir(); err == nil {
			userConfig.AddConfigPath(filepath.Join(dir, userConfigName))
		}
	}

	userConfig.SetEnvPrefix(envPrefix)
	userConfig.AutomaticEnv()

	userConfig.SetDefault(configKey_Verbose, false)
	userConfig.SetDefault(configKey_SessionMatch, default_SessionMatch)
	userConfig.SetDefault(configKey_Notify, false)
	userConfig.SetDefault(configKey_DeviceAliases, map[string]string{})
	userConfig.SetDefault(configKey_SessionAliases, map[string]string{})

	cc.userConfig = userConfig

	logger.Debug("Created config instance")

	return cc, nil
}

// Load reads the config file, if there is one, and populates the fields
func (cc *CanonicalConfig) Load() error {
	if cc.configFile != "" && !util.FileExists(cc.configFile) {
		cc.logger.Warnw("Config file not found", "path", cc.configFile)
		return NewInputError("config file doesn't exist: %s", cc.configFile)
	}

	if err := cc.userConfig.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			cc.logger.Warnw("Viper failed to read user config", "error", err)
			return fmt.Errorf("read user config: %w", err)
		}

		cc.logger.Debugw("No config file found, using defaults", "reminder", "this is fine")
	} else {
		cc.logger.Debugw("Read config file", "path", cc.userConfig.ConfigFileUsed())
	}

	if err := cc.populateFromViper(); err != nil {
		cc.logger.Warnw("Failed to populate config fields", "error", err)
		return fmt.Errorf("populate config fields: %w", err)
	}

	cc.logger.Debugw("Config values",
		"verbose", cc.Verbose,
		"sessionMatch", cc.SessionMatch,
		"notify", cc.Notify,
		"deviceAliases", cc.aliasNames(cc.DeviceAliases),
		"sessionAliases", cc.aliasNames(cc.SessionAliases),
	)

	return nil
}

// ResolveDevice maps a device alias to the prefix it stands for. Anything that
// isn't an alias is returned unchanged
func (cc *CanonicalConfig) ResolveDevice(arg string) string {
	return resolveAlias(cc.DeviceAliases, arg)
}

// ResolveSession maps a session alias to the display name it stands for
func (cc *CanonicalConfig) ResolveSession(arg string) string {
	return resolveAlias(cc.SessionAliases, arg)
}

func (cc *CanonicalConfig) populateFromViper() error {
	cc.Verbose = cc.userConfig.GetBool(configKey_Verbose)
	cc.Notify = cc.userConfig.GetBool(configKey_Notify)

	cc.SessionMatch = strings.ToLower(strings.TrimSpace(cc.userConfig.GetString(configKey_SessionMatch)))
	if cc.SessionMatch == "" {
		cc.SessionMatch = default_SessionMatch
	}

	if !funk.ContainsString(MatchModes, cc.SessionMatch) {
		return NewInputError("invalid %s %q (expected one of %s)",
			configKey_SessionMatch, cc.SessionMatch, strings.Join(MatchModes, ", "))
	}

	// viper lowercases map keys, so aliases are case-insensitive
	cc.DeviceAliases = cc.userConfig.GetStringMapString(configKey_DeviceAliases)
	cc.SessionAliases = cc.userConfig.GetStringMapString(configKey_SessionAliases)

	cc.logger.Debug("Populated config fields from viper")

	return nil
}

func (cc *CanonicalConfig) aliasNames(aliases map[string]string) []string {
	names, _ := funk.Keys(aliases).([]string)
	sort.Strings(names)

	return names
}

func resolveAlias(aliases map[string]string, arg string) string {
	if target, ok := aliases[strings.ToLower(arg)]; ok && target != "" {
		return target
	}

	return arg
}
