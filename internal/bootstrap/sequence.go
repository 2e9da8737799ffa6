// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"os"

	"github.com/extboot/extboot/internal/config"
)

// AbsentSequence is forwarded when the environment carries no sequence
// number.
const AbsentSequence = "-1"

// SequenceToken carries the configuration sequence number the handler is
// invoked with. The value is passed through as text; the bootstrap never
// validates its numeric format.
type SequenceToken struct {
	value string
	found bool
}

// SequenceFromEnv reads the sequence number from the named environment
// variable. Absent and empty both yield the absent token.
func SequenceFromEnv(name config.EnvVarName) SequenceToken {
	v := os.Getenv(string(name))
	if v == "" {
		return SequenceToken{}
	}
	return SequenceToken{value: v, found: true}
}

// Found reports whether the environment carried a sequence number.
func (t SequenceToken) Found() bool { return t.found }

// Value returns the sequence number as given, or "-1" when absent.
func (t SequenceToken) Value() string {
	if !t.found {
		return AbsentSequence
	}
	return t.value
}

// Arg renders the handler argument form, e.g. "-seqNo:42".
func (t SequenceToken) Arg() string { return "-seqNo:" + t.Value() }
