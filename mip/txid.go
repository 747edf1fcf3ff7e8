package mip

import (
	"fmt"
	"time"
)

// txidLen and txidShortLen are the two accepted input lengths for a
// transmission id: the full 14-character form and the 9-character
// short form (D+ttt+EEEEE) that gets auto-completed.
const (
	txidLen      = 14
	txidShortLen = 9
)

// NormalizeTxID validates and, if necessary, completes a transmission
// id per spec.md §3/§8 ("TxID normalization law"). A 14-char input is
// returned verbatim (after validating its direction byte). A 9-char
// input D+ttt+EEEEE is completed with the current Julian day (JJJ) and
// sequence "01". Any other length, or a direction byte outside {R,T},
// is rejected with a UsageError.
func NormalizeTxID(id string) (string, error) {
	if len(id) != txidLen && len(id) != txidShortLen {
		return "", NewError(UsageError, "transmission id must be %d or %d characters, got %d", txidShortLen, txidLen, len(id))
	}
	d := id[0]
	if d != 'R' && d != 'T' {
		return "", NewError(UsageError, "transmission id direction must be R or T, got %q", string(d))
	}
	if len(id) == txidLen {
		return id, nil
	}
	julian := time.Now().YearDay()
	return fmt.Sprintf("%s%03d%s", id, julian, "01"), nil
}

// txidSequence returns the 2-character sequence suffix (SS) of a
// 14-char transmission id.
func txidSequence(id string) string {
	return id[12:14]
}

// withSequence returns a copy of a 14-char transmission id with its SS
// suffix replaced by ss (a value 1..99, rendered as two zero-padded
// digits).
func withSequence(id string, ss int) string {
	return fmt.Sprintf("%s%02d", id[:12], ss)
}
