package emoji

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/amjd/pkg/status"
)

func TestForStatus(t *testing.T) {
	tests := []struct {
		in   status.Status
		want string
	}{
		{status.OK, Success},
		{status.Warn, Warning},
		{status.Fail, Error},
		{status.Error(errors.New("bad date")), Error},
		{"ERROR", Error},
		{status.Range, Range},
		{status.NA, Optional},
		{status.NoAMYear, Optional},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ForStatus(tt.in))
		})
	}
}
