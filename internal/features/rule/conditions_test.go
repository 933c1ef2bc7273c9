package rule

import "testing"

func TestMatchesConditions(t *testing.T) {
	tests := []struct {
		name       string
		conditions map[string]interface{}
		context    map[string]interface{}
		want       bool
	}{
		{
			name:       "empty conditions match anything",
			conditions: nil,
			context:    map[string]interface{}{"currentWeek": 3},
			want:       true,
		},
		{
			name:       "empty conditions match nil context",
			conditions: map[string]interface{}{},
			context:    nil,
			want:       true,
		},
		{
			name:       "non-empty conditions never match nil context",
			conditions: map[string]interface{}{"currentWeek": 3},
			context:    nil,
			want:       false,
		},
		{
			name:       "equal values match",
			conditions: map[string]interface{}{"peptideType": "standard"},
			context:    map[string]interface{}{"peptideType": "standard"},
			want:       true,
		},
		{
			name:       "different values do not match",
			conditions: map[string]interface{}{"peptideType": "standard"},
			context:    map[string]interface{}{"peptideType": "extended"},
			want:       false,
		},
		{
			name:       "missing key does not match",
			conditions: map[string]interface{}{"currentWeek": 3},
			context:    map[string]interface{}{"peptideType": "standard"},
			want:       false,
		},
		{
			name:       "all keys must match",
			conditions: map[string]interface{}{"currentWeek": 3, "peptideType": "standard"},
			context:    map[string]interface{}{"currentWeek": 3, "peptideType": "extended"},
			want:       false,
		},
		{
			name:       "numeric comparison tolerates int vs float representation",
			conditions: map[string]interface{}{"currentWeek": 3},
			context:    map[string]interface{}{"currentWeek": 3},
			want:       true,
		},
		{
			name:       "string number equals numeric value",
			conditions: map[string]interface{}{"currentWeek": "3"},
			context:    map[string]interface{}{"currentWeek": 3},
			want:       true,
		},
		{
			name:       "extra context keys are ignored",
			conditions: map[string]interface{}{"currentWeek": 3},
			context:    map[string]interface{}{"currentWeek": 3, "patientName": "Sam"},
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesConditions(tt.conditions, tt.context); got != tt.want {
				t.Errorf("MatchesConditions() = %v, want %v", got, tt.want)
			}
		})
	}
}
