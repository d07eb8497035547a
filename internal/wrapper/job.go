package wrapper

import (
	"redirectadmin/pkg/domain"

	"github.com/riverqueue/river"
)

// JobArgs carries the link set to wrap through the job queue.
type JobArgs struct {
	LinkSetID domain.LinkSetID `json:"linkSetId"`
}

// Kind implements river.JobArgs.
func (JobArgs) Kind() string {
	return "WrapLinkSetJob"
}

// InsertOpts implements river.JobArgsWithInsertOpts. A wrap run bills the
// user as it goes, so a failed run is never retried automatically.
func (JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 1,
	}
}
