package housekeeping

import "time"

// TopicMappingsPurged carries purge audit events from the sweeper.
const TopicMappingsPurged = "mappings.purged"

// PurgeEvent records one purge pass over long-expired mappings.
type PurgeEvent struct {
	ID          string    `json:"id"`
	PurgedCount int64     `json:"purgedCount"`
	Cutoff      time.Time `json:"cutoff"`
	OccurredAt  time.Time `json:"occurredAt"`
}
