package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_matchUserIDs(t *testing.T) {
	rows := []userID{{ID: 3, Username: "JSmith"}, {ID: 7, Username: "teacher"}}

	tests := []struct {
		name      string
		usernames []string
		want      map[string]int
	}{
		{name: "same case", usernames: []string{"JSmith", "teacher"}, want: map[string]int{"JSmith": 3, "teacher": 7}},
		{name: "sis casing kept as key", usernames: []string{"jsmith", "TEACHER"}, want: map[string]int{"jsmith": 3, "TEACHER": 7}},
		{name: "unknown", usernames: []string{"ghost"}, want: map[string]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchUserIDs(tt.usernames, rows))
		})
	}
}
