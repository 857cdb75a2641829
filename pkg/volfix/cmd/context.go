package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/stalexteam/volfix/pkg/volfix"
)

type dependencies struct {
	newBackend func(*zap.SugaredLogger) (volfix.Backend, error)
	newLogger  func(verbose bool) (*zap.SugaredLogger, error)
}

type commandContext struct {
	out  io.Writer
	deps dependencies

	configFlag  string
	verboseFlag bool
	matchFlag   string

	logger *zap.SugaredLogger
	config *volfix.CanonicalConfig
}

func newCommandContext(out io.Writer, deps dependencies) *commandContext {
	return &commandContext{out: out, deps: deps}
}

// ensureConfig builds the logger and loads the config once. It never touches
// the audio subsystem
func (c *commandContext) ensureConfig() (*volfix.CanonicalConfig, error) {
	if c.config != nil {
		return c.config, nil
	}

	logger, err := c.deps.newLogger(c.verboseFlag)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	config, err := volfix.NewConfig(logger, c.configFlag)
	if err != nil {
		return nil, fmt.Errorf("create config: %w", err)
	}

	if err := config.Load(); err != nil {
		return nil, err
	}

	// the config can ask for verbose logs even when the flag didn't. Load it
	// again so its own debug lines reach the new logger
	if config.Verbose && !c.verboseFlag {
		if logger, err = c.deps.newLogger(true); err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}

		if config, err = volfix.NewConfig(logger, c.configFlag); err != nil {
			return nil, fmt.Errorf("create config: %w", err)
		}

		if err := config.Load(); err != nil {
			return nil, err
		}
	}

	c.logger = logger
	c.config = config

	return config, nil
}

// matchMode is the --match flag if given, otherwise the configured mode
func (c *commandContext) matchMode() string {
	if c.matchFlag != "" {
		return c.matchFlag
	}

	return c.config.SessionMatch
}

// withVolumeFix initializes the audio subsystem, runs fn and tears it down
func (c *commandContext) withVolumeFix(fn func(*volfix.VolumeFix) error) error {
	if _, err := c.ensureConfig(); err != nil {
		return err
	}

	backend, err := c.deps.newBackend(c.logger)
	if err != nil {
		c.logger.Errorw("Failed to create audio backend", "error", err)
		return fmt.Errorf("create audio backend: %w", err)
	}

	var notifier volfix.Notifier = volfix.NopNotifier()
	if c.config.Notify {
		if notifier, err = volfix.NewToastNotifier(c.logger); err != nil {
			return fmt.Errorf("create new ToastNotifier: %w", err)
		}
	}

	v, err := volfix.NewVolumeFix(c.logger, backend, notifier, c.out)
	if err != nil {
		return fmt.Errorf("create volfix: %w", err)
	}

	if err := v.Initialize(); err != nil {
		return err
	}

	defer func() {
		if err := v.Release(); err != nil {
			c.logger.Warnw("Failed to release volfix", "error", err)
		}

		// attempt to sync on exit - this won't necessarily work but can't harm
		c.logger.Sync()
	}()

	return fn(v)
}
