package studentid

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGeneratorFormat(t *testing.T) {
	g := NewGenerator("STU")
	g.now = func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) }

	assert.Regexp(t, `^STU-2026-\d{6}$`, g.Next())
}

func TestGeneratorDefaultPrefix(t *testing.T) {
	g := NewGenerator("")
	assert.Contains(t, g.Next(), fmt.Sprintf("STU-%d-", time.Now().UTC().Year()))
}
