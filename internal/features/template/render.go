package template

import (
	"fmt"
	"strings"
	"time"
)

// The renderer only knows this fixed set of placeholders. Anything else in
// the content (for example a typo like {{patinetName}}) is left verbatim so
// authors can spot the mistake in the delivered message.
var placeholderFallbacks = map[string]string{
	"patientName":   "there",
	"currentWeek":   "1",
	"peptideType":   "your program",
	"currentWeight": "your current weight",
	"startWeight":   "your starting weight",
	"adminName":     "your care team",
	"date":          "",
	"time":          "",
}

// Render substitutes the fixed placeholder set into content, pulling values
// from data and falling back to a human-readable default when a value is
// absent. It is a pure function apart from the date/time defaults.
func Render(content string, data map[string]interface{}) string {
	for key, fallback := range placeholderFallbacks {
		placeholder := "{{" + key + "}}"
		if !strings.Contains(content, placeholder) {
			continue
		}

		value := fallback
		switch key {
		case "date":
			value = time.Now().Format("January 2, 2006")
		case "time":
			value = time.Now().Format("3:04 PM")
		}
		if v, ok := data[key]; ok && v != nil {
			value = fmt.Sprintf("%v", v)
		}

		content = strings.ReplaceAll(content, placeholder, value)
	}
	return content
}
