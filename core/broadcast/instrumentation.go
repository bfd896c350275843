package broadcast

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/manan-dev/jarvis-core/core/broadcast"

var logger = otelslog.NewLogger(scopeName)
