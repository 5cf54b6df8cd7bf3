package scalelite

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// State is the lifecycle state of a registered server as reported by the API.
type State string

const (
	StateEnabled  State = "enabled"
	StateDisabled State = "disabled"
	StateCordoned State = "cordoned"
)

// Transition is a verb accepted by updateServer to change a server's state.
// The API never accepts a raw state value on update.
type Transition string

const (
	TransitionEnable  Transition = "enable"
	TransitionDisable Transition = "disable"
	TransitionCordon  Transition = "cordon"
)

// FlexString decodes a JSON string, number or boolean into its textual form.
// Scalelite versions disagree on whether load_multiplier and online are
// strings or native JSON values; keeping the text lets callers compare them
// the way the API prints them.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

// String returns the textual value.
func (f FlexString) String() string {
	return string(f)
}

// Server is a server record as returned by the management API.
type Server struct {
	ID             string     `json:"id" yaml:"id"`
	URL            string     `json:"url" yaml:"url"`
	Secret         string     `json:"secret" yaml:"secret"`
	State          State      `json:"state" yaml:"state"`
	Load           FlexString `json:"load" yaml:"load"`
	LoadMultiplier FlexString `json:"load_multiplier" yaml:"load_multiplier"`
	Online         FlexString `json:"online" yaml:"online"`
}

// ServerSpec is the payload of an addServer call.
type ServerSpec struct {
	URL            string   `json:"url"`
	Secret         string   `json:"secret"`
	LoadMultiplier *float64 `json:"load_multiplier,omitempty"`
}

// ServerPatch is the sparse payload of an updateServer call. A nil field is
// omitted from the request; a non-nil field is sent even when it holds the
// zero value.
type ServerPatch struct {
	State          *Transition `json:"state,omitempty" yaml:"state,omitempty"`
	Secret         *string     `json:"secret,omitempty" yaml:"secret,omitempty"`
	LoadMultiplier *float64    `json:"load_multiplier,omitempty" yaml:"load_multiplier,omitempty"`
}

// IsEmpty reports whether the patch carries no field.
func (p ServerPatch) IsEmpty() bool {
	return p.State == nil && p.Secret == nil && p.LoadMultiplier == nil
}

// Fields returns the JSON names of the fields present in the patch.
func (p ServerPatch) Fields() []string {
	var fields []string
	if p.State != nil {
		fields = append(fields, "state")
	}
	if p.Secret != nil {
		fields = append(fields, "secret")
	}
	if p.LoadMultiplier != nil {
		fields = append(fields, "load_multiplier")
	}
	return fields
}

// Response is the outcome of a mutating call: the raw payload returned by
// the API and, when the payload is a server record, its decoded form.
type Response struct {
	Raw    json.RawMessage
	Server *Server
}

// FormatMultiplier renders a load multiplier the way the API stores it, so
// that 2 becomes "2.0" and 1.25 stays "1.25".
func FormatMultiplier(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func decodeResponse(raw []byte) *Response {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &Response{}
	}

	resp := &Response{Raw: json.RawMessage(raw)}
	if raw[0] == '{' {
		var server Server
		if err := json.Unmarshal(raw, &server); err == nil && server.ID != "" {
			resp.Server = &server
		}
	}
	return resp
}
