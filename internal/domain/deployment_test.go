package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployment_BuildDuration(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ready := created.Add(150 * time.Second)

	d := Deployment{CreatedAt: created, ReadyAt: &ready}
	duration, ok := d.BuildDuration()
	require.True(t, ok)
	assert.Equal(t, 150*time.Second, duration)
	assert.Equal(t, "2m 30s", d.FormattedBuildDuration())

	notReady := Deployment{CreatedAt: created}
	_, ok = notReady.BuildDuration()
	assert.False(t, ok)
	assert.Empty(t, notReady.FormattedBuildDuration())
}

func TestDeployment_FormattedBuildDuration_SubMinute(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ready := created.Add(45 * time.Second)

	d := Deployment{CreatedAt: created, ReadyAt: &ready}
	assert.Equal(t, "45s", d.FormattedBuildDuration())
}

func TestDeployment_ShortCommitSHA(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a1b2c3d", Deployment{CommitSHA: "a1b2c3d4e5f6a7b8"}.ShortCommitSHA())
	assert.Equal(t, "abc", Deployment{CommitSHA: "abc"}.ShortCommitSHA())
	assert.Empty(t, Deployment{}.ShortCommitSHA())
}

func TestProject_LatestDeployment(t *testing.T) {
	t.Parallel()

	empty := Project{}
	_, ok := empty.LatestDeployment()
	assert.False(t, ok)
	_, ok = empty.LatestStatus()
	assert.False(t, ok)

	p := Project{Deployments: []Deployment{
		{ID: "newest", Status: StatusBuilding},
		{ID: "older", Status: StatusReady},
	}}
	latest, ok := p.LatestDeployment()
	require.True(t, ok)
	assert.Equal(t, "newest", latest.ID)

	status, ok := p.LatestStatus()
	require.True(t, ok)
	assert.Equal(t, StatusBuilding, status)
}
