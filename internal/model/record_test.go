package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordString(t *testing.T) {
	r := Record{
		"name":    "Physics",
		"sem":     json.Number("3"),
		"amount":  1250.5,
		"active":  true,
		"missing": nil,
	}

	assert.Equal(t, "Physics", r.String("name"))
	assert.Equal(t, "3", r.String("sem"))
	assert.Equal(t, "1250.5", r.String("amount"))
	assert.Equal(t, "true", r.String("active"))
	assert.Equal(t, "", r.String("missing"))
	assert.Equal(t, "", r.String("absent"))
	assert.False(t, r.Has("missing"))
}

func TestRecordClone(t *testing.T) {
	r := Record{"courseid": "CRS_001"}
	c := r.Clone()
	c["courseid"] = "CRS_002"

	assert.Equal(t, "CRS_001", r.ID("courseid"))
	assert.Equal(t, "CRS_002", c.ID("courseid"))
}
