// Package logging builds the zap-backed logr.Logger that datapipe components
// accept.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/datapipe/logging"
//	    "github.com/born-ml/datapipe/tokenizer"
//	)
//
//	log, err := logging.NewLogger(logging.DEBUG, true)
//	if err != nil {
//	    panic(err)
//	}
//	tok, err := tokenizer.AutoLoad("spm.model", nil, tokenizer.WithLogger(log))
package logging

import (
	"github.com/go-logr/logr"

	"github.com/born-ml/datapipe/internal/logging"
)

// Verbosity levels for logger.V(...).
const (
	DEFAULT = logging.DEFAULT
	VERBOSE = logging.VERBOSE
	DEBUG   = logging.DEBUG
	TRACE   = logging.TRACE
)

// NewLogger returns a zap-backed logger that emits messages up to the given
// verbosity. Development mode switches to human-readable console output.
func NewLogger(verbosity int, development bool) (logr.Logger, error) {
	return logging.NewLogger(verbosity, development)
}
