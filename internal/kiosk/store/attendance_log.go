package store

import (
	"context"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// AttendanceLog is the append-only record of resolution events for the
// current day. Append writes exactly one line and makes it durable before
// returning; prior lines are never rewritten or deleted. An Append error is
// fatal to the session — recording attendance is the system's entire point.
type AttendanceLog interface {
	Append(ctx context.Context, rec types.AttendanceRecord) error
}
