package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clsbot.hk/points-bot/internal/common"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"один токен", []string{"Alice"}, "Alice", false},
		{"несколько токенов склеиваются одним пробелом", []string{"Alice", "Lee"}, "Alice Lee", false},
		{"пусто", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseName(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNameDelta(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantName  string
		wantDelta int64
		wantErr   bool
	}{
		{"имя и дельта", []string{"Alice", "100"}, "Alice", 100, false},
		{"имя из нескольких токенов", []string{"Alice", "Lee", "-5"}, "Alice Lee", -5, false},
		{"отрицательная дельта", []string{"Bob", "-20"}, "Bob", -20, false},
		{"мало токенов", []string{"Alice"}, "", 0, true},
		{"пусто", nil, "", 0, true},
		{"нечисловая дельта", []string{"Alice", "abc"}, "", 0, true},
		{"дробная дельта", []string{"Alice", "1.5"}, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, delta, err := parseNameDelta(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantDelta, delta)
		})
	}
}
