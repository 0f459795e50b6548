package web

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func options(values []int, selected int, suffix string) string {
	var b strings.Builder
	for _, value := range values {
		b.WriteString(`<option value="`)
		b.WriteString(itoa(value))
		b.WriteString(`"`)
		if value == selected {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(itoa(value) + suffix))
		b.WriteString(`</option>`)
	}
	return b.String()
}
