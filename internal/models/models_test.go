package models

import (
	"encoding/json"
	"testing"
)

func TestParseEventType(t *testing.T) {
	cases := []struct {
		in      string
		want    EventType
		wantErr bool
	}{
		{"LOGIN", EventTypeLogin, false},
		{"login", EventTypeLogin, false},
		{" Page_View ", EventTypePageView, false},
		{"PAYMENT", EventTypePayment, false},
		{"INVALID_TYPE", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseEventType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseEventType(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseEventType(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestParseEventSource(t *testing.T) {
	for _, in := range []string{"web", "WEB", " Mobile ", "api", "system", "batch"} {
		if _, err := ParseEventSource(in); err != nil {
			t.Errorf("ParseEventSource(%q): unexpected error %v", in, err)
		}
	}
	if _, err := ParseEventSource("desktop"); err == nil {
		t.Error("ParseEventSource(desktop): expected error")
	}
}

func TestEventDetailsPayload(t *testing.T) {
	d := &EventDetails{Details: `{"amount":99.99}`}
	if got := d.Payload(); string(got) != `{"amount":99.99}` {
		t.Errorf("unexpected payload: %s", got)
	}

	empty := &EventDetails{}
	if empty.Payload() != nil {
		t.Error("expected nil payload for empty details")
	}
}

func TestCreateEventRequestHasDetails(t *testing.T) {
	req := &CreateEventRequest{}
	if req.HasDetails() {
		t.Error("expected no details")
	}
	req.EventDetails = json.RawMessage(`{}`)
	if !req.HasDetails() {
		t.Error("expected details present")
	}
}
