package scalelitemock

// Record is a server as stored by the fake API.
type Record struct {
	ID             string  `json:"id" yaml:"id"`
	URL            string  `json:"url" yaml:"url"`
	Secret         string  `json:"secret" yaml:"secret"`
	State          string  `json:"state" yaml:"state"`
	Load           float64 `json:"load" yaml:"load"`
	LoadMultiplier string  `json:"load_multiplier" yaml:"load_multiplier"`
	Online         string  `json:"online" yaml:"online"`
}

// Fixture is the YAML document accepted by LoadFixture.
type Fixture struct {
	Servers []Record `yaml:"servers"`
}

// Call is one request received by the fake API.
type Call struct {
	Method   string
	Endpoint string
	// Body is the decoded JSON request body, nil for GET requests.
	Body map[string]interface{}
	// RequestID is the value of the X-Request-Id header.
	RequestID string
}

// failure is an injected response for the next call to an endpoint.
type failure struct {
	status int
	body   string
}
