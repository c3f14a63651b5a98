package http

// cookieStage copies the request cookies into the request context. When a
// name repeats, the first cookie wins.
type cookieStage struct{}

func (cookieStage) Process(x *Exchange) Outcome {
	cookies := x.Request.Cookies()
	if len(cookies) == 0 {
		return Continue()
	}

	byName := make(map[string]string, len(cookies))
	for _, c := range cookies {
		if _, ok := byName[c.Name]; !ok {
			byName[c.Name] = c.Value
		}
	}
	x.SetRequestContext(x.RequestContext().WithCookies(byName))

	return Continue()
}
