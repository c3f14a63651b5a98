package http

import "time"

// timestampStage records when the request was received.
type timestampStage struct {
	now func() time.Time
}

func newTimestampStage(now func() time.Time) *timestampStage {
	return &timestampStage{now: now}
}

func (s *timestampStage) Process(x *Exchange) Outcome {
	x.SetRequestContext(x.RequestContext().WithRequestTime(s.now()))
	return Continue()
}
