package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/mshiraki/cinefit/pkg/errors"
)

// EnableZerologWarnings routes library warnings through a zerolog console
// writer. Warning types that implement zerolog.LogObjectMarshaler are logged
// as structured objects; anything else falls back to the error message.
func EnableZerologWarnings(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()

	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.Object("warning", obj).Msg(warning.Error())
			return
		}
		ev.Msg(warning.Error())
	})
}
