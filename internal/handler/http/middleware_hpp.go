package http

// multiValueParams may repeat in the query string, e.g. ?duration=5&duration=9.
var multiValueParams = []string{
	"duration",
	"ratingsQuantity",
	"ratingsAverage",
	"maxGroupSize",
	"difficulty",
	"price",
}

// parameterPollutionStage keeps only the last value of a repeated query
// parameter unless the parameter is whitelisted.
type parameterPollutionStage struct {
	whitelist map[string]struct{}
}

func newParameterPollutionStage(whitelist []string) *parameterPollutionStage {
	set := make(map[string]struct{}, len(whitelist))
	for _, name := range whitelist {
		set[name] = struct{}{}
	}

	return &parameterPollutionStage{whitelist: set}
}

func (s *parameterPollutionStage) Process(x *Exchange) Outcome {
	r := x.Request
	if r.URL.RawQuery == "" {
		return Continue()
	}

	query := r.URL.Query()
	changed := false
	for key, values := range query {
		if len(values) < 2 {
			continue
		}
		if _, ok := s.whitelist[key]; ok {
			continue
		}
		query[key] = values[len(values)-1:]
		changed = true
	}
	if changed {
		r.URL.RawQuery = query.Encode()
	}

	return Continue()
}
