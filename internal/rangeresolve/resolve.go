// Package rangeresolve implements a binary search over the broker's
// sequence space that translates a wall-clock timestamp into the
// smallest sequence whose message timestamp is at or after it, skipping
// forward over purge gaps without narrowing the search window.
package rangeresolve

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shubhamrasal/natscan/internal/broker"
)

// ErrFetch wraps a broker error encountered while probing a sequence
// during resolution.
type ErrFetch struct {
	Seq uint64
	Err error
}

func (e ErrFetch) Error() string {
	return fmt.Sprintf("failed to fetch message at sequence %d for timestamp resolution: %v", e.Seq, e.Err)
}

func (e ErrFetch) Unwrap() error { return e.Err }

// Resolve performs a binary search over [firstSeq, lastSeq] for the
// first sequence whose timestamp is >= targetNs. found is false when no
// such sequence exists.
func Resolve(f broker.Fetcher, streamName string, targetNs int64, firstSeq, lastSeq uint64) (seq uint64, found bool, err error) {
	left, right := firstSeq, lastSeq
	var result uint64
	found = false

	for left <= right {
		mid := left + (right-left)/2

		msg, err := f.DirectGet(streamName, mid)
		if errors.Is(err, broker.ErrNotFound) {
			left = mid + 1
			continue
		}
		if err != nil {
			return 0, false, ErrFetch{Seq: mid, Err: err}
		}

		if msg.TimestampNs >= targetNs {
			result = mid
			found = true
			if mid == 0 {
				break
			}
			right = mid - 1
		} else {
			left = mid + 1
		}
	}

	log.Debug().Str("stream", streamName).Int64("target_ns", targetNs).Uint64("result_seq", result).Bool("found", found).Msg("range resolved")
	return result, found, nil
}
