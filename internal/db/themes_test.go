package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadThemes(t *testing.T) {
	input := `theme,question
Dream Vacation, What's the first thing you would do?
Dream Vacation,"Describe one thing you would pack, not clothes."
,missing theme
Lonely Row
A Dinner Party,What dish would you bring?
`
	records, err := readThemes(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []themeRecord{
		{Theme: "Dream Vacation", Question: "What's the first thing you would do?"},
		{Theme: "Dream Vacation", Question: "Describe one thing you would pack, not clothes."},
		{Theme: "A Dinner Party", Question: "What dish would you bring?"},
	}, records)
}
