package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactsLines_DistanceUnit(t *testing.T) {
	near, far := 0.35, 12.34

	assert.Contains(t, Facts{Town: "Kőszeg", DistanceKm: &near}.Lines(), "A látogató távolsága a várostól: 350 m")
	assert.Contains(t, Facts{Town: "Kőszeg", DistanceKm: &far}.Lines(), "A látogató távolsága a várostól: 12.3 km")

	for _, l := range (Facts{Town: "Kőszeg"}).Lines() {
		assert.NotContains(t, l, "távolsága")
	}
}
