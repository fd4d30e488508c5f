package profile

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestGetProfiles(t *testing.T) {
	v := viper.New()
	v.Set("work.output", "json")
	v.Set("work.table.page-size", 20)
	v.Set("default.output", "text")

	assert.Equal(t, []string{"default", "work"}, NewManager(v).GetProfiles())
}

func TestGetProfilesEmpty(t *testing.T) {
	assert.Empty(t, NewManager(viper.New()).GetProfiles())
}
