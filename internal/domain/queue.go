// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// Job names for the background work queue.
const (
	JobCheckLiveMeetings     = "CheckLiveMeetings"
	JobCheckLiveUserMeetings = "CheckLiveUserMeetings"
	JobEndActiveMeetings     = "EndActiveMeetings"
	JobEndMeeting            = "EndMeeting"
)

// Job origins recorded for observability.
const (
	JobOriginCron = "cron"
	JobOriginJob  = "job"
)

// JobMessage is the unit of work flowing through the queue. Name selects
// the handler; Key scopes the job to a single entity and participates in
// queue-level deduplication together with Name.
type JobMessage struct {
	Name       string    `msgpack:"name"`
	Key        string    `msgpack:"key"`
	Origin     string    `msgpack:"origin"`
	EnqueuedAt time.Time `msgpack:"enqueued_at"`
	Payload    []byte    `msgpack:"payload,omitempty"`
}

// CheckLiveUserMeetingsPayload is the payload for CheckLiveUserMeetings jobs.
type CheckLiveUserMeetingsPayload struct {
	UserUID string `msgpack:"user_uid"`
}

// EndMeetingPayload is the payload for EndMeeting jobs.
type EndMeetingPayload struct {
	MeetingUID string `msgpack:"meeting_uid"`
}

// JobQueue defines the interface for enqueueing background work.
type JobQueue interface {
	Enqueue(ctx context.Context, job *JobMessage) error
}

// JobHandler processes a single dequeued job. A returned error requeues
// the job for redelivery.
type JobHandler func(ctx context.Context, job *JobMessage) error
