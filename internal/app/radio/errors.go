package radio

import "errors"

var (
	ErrMalformedTimestamp  = errors.New("malformed timestamp")
	ErrFeedParse           = errors.New("failed to parse feed")
	ErrScheduleUnavailable = errors.New("schedule unavailable")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrNetwork             = errors.New("network error")

	// ErrCycleInProgress 已有更新周期在执行中
	ErrCycleInProgress = errors.New("a fetch cycle is already in progress")

	errNotDue = errors.New("the next fetch cycle is not due yet")
)
