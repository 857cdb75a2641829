package volfix

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stalexteam/volfix/pkg/volfix/util"
)

// NewLogger provides a logger instance for the whole program. Logs go to
// stderr so stdout only carries the command's own output
func NewLogger(verbose bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.ErrorOutputPaths = []string{"stderr"}

	// quiet by default, this is a one-shot command
	if verbose {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	// no caller, nicer timestamps
	loggerConfig.EncoderConfig.EncodeCaller = nil
	loggerConfig.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}

	if colorTerminal(os.Stderr.Fd()) {
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("create zap logger: %w", err)
	}

	// no reason not to use the sugared logger - it's fast enough for anything we're gonna do
	sugar := logger.Sugar()

	return sugar.Named("volfix"), nil
}

// colorTerminal reports whether fd renders ANSI colors. The plain Windows
// console shows them as raw escapes, only mintty/cygwin ptys draw them there
func colorTerminal(fd uintptr) bool {
	if util.Windows() {
		return isatty.IsCygwinTerminal(fd)
	}

	return isatty.IsTerminal(fd)
}
