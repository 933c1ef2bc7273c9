package template

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		content string
		data    map[string]interface{}
		want    string
	}{
		{
			name:    "substitutes provided values",
			content: "Hi {{patientName}}, welcome to week {{currentWeek}}",
			data:    map[string]interface{}{"patientName": "Sam", "currentWeek": 4},
			want:    "Hi Sam, welcome to week 4",
		},
		{
			name:    "falls back when value is absent",
			content: "Hi {{patientName}}, you are on {{peptideType}}",
			data:    map[string]interface{}{},
			want:    "Hi there, you are on your program",
		},
		{
			name:    "falls back when value is nil",
			content: "Hi {{patientName}}",
			data:    map[string]interface{}{"patientName": nil},
			want:    "Hi there",
		},
		{
			name:    "currentWeek falls back to 1",
			content: "Week {{currentWeek}} check-in",
			data:    nil,
			want:    "Week 1 check-in",
		},
		{
			name:    "unknown placeholder left verbatim",
			content: "Hi {{patinetName}}, see you soon",
			data:    map[string]interface{}{"patientName": "Sam"},
			want:    "Hi {{patinetName}}, see you soon",
		},
		{
			name:    "no placeholders passes through",
			content: "Plain message",
			data:    map[string]interface{}{"patientName": "Sam"},
			want:    "Plain message",
		},
		{
			name:    "repeated placeholder replaced everywhere",
			content: "{{patientName}} and {{patientName}}",
			data:    map[string]interface{}{"patientName": "Sam"},
			want:    "Sam and Sam",
		},
		{
			name:    "numeric value is formatted",
			content: "Weight: {{currentWeight}}",
			data:    map[string]interface{}{"currentWeight": 82.5},
			want:    "Weight: 82.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.content, tt.data); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDateDefaults(t *testing.T) {
	got := Render("Today is {{date}} at {{time}}", nil)
	if strings.Contains(got, "{{date}}") || strings.Contains(got, "{{time}}") {
		t.Errorf("Render() left date/time placeholders unresolved: %q", got)
	}
	if got == "Today is  at " {
		t.Errorf("Render() produced empty date/time values: %q", got)
	}
}
