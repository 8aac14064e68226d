package classifier

import "testing"

func TestCategorize(t *testing.T) {
	cases := []struct {
		eventType string
		want      string
	}{
		{"LOGIN", CategoryAuthentication},
		{"LOGOUT", CategoryAuthentication},
		{"PURCHASE", CategoryTransaction},
		{"PAYMENT", CategoryTransaction},
		{"ERROR", CategoryError},
		{"CRASH", CategoryError},
		{"PAGE_VIEW", CategoryAnalytics},
		{"CLICK", CategoryAnalytics},
		{"API_CALL", CategoryGeneral},
		{"PERFORMANCE", CategoryGeneral},

		// Case variants
		{"login", CategoryAuthentication},
		{"Payment", CategoryTransaction},
		{"page_view", CategoryAnalytics},
		{"  crash  ", CategoryError},

		// Unrecognized input must not error, only degrade
		{"SIGNUP", CategoryGeneral},
		{"", CategoryGeneral},
		{"not a type", CategoryGeneral},
	}

	for _, tc := range cases {
		if got := Categorize(tc.eventType); got != tc.want {
			t.Errorf("Categorize(%q) = %q, want %q", tc.eventType, got, tc.want)
		}
	}
}
