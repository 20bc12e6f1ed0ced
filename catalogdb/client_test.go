package catalogdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtdata.quanttide.cn/internal/appconf"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func sampleArtifact() Artifact {
	return Artifact{
		Kind:        "dataset",
		Name:        "questionnaire_cleaning",
		Version:     "1.0",
		ArchivePath: "registry/dataset/questionnaire_cleaning_1.0.zip",
		Checksum:    "deadbeef",
		SizeBytes:   1024,
		PublishedAt: time.Date(2026, 1, 16, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewClientRefusesFileDBInTests(t *testing.T) {
	_, err := NewClient(NewConfig("catalog.db", appconf.Test, false))
	assert.Error(t, err)
}

func TestArtifactRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	id, err := client.Queries.InsertArtifact(ctx, sampleArtifact())
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := client.Queries.GetArtifact(ctx, "dataset", "questionnaire_cleaning", "1.0")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", got.Checksum)
	assert.Equal(t, int64(1024), got.SizeBytes)

	_, err = client.Queries.GetArtifact(ctx, "recipe", "questionnaire_cleaning", "1.0")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsertArtifactReplacesSameVersion(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := sampleArtifact()
	_, err := client.Queries.InsertArtifact(ctx, a)
	require.NoError(t, err)

	a.Checksum = "cafebabe"
	_, err = client.Queries.InsertArtifact(ctx, a)
	require.NoError(t, err)

	artifacts, err := client.Queries.ListArtifacts(ctx, "dataset")
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "cafebabe", artifacts[0].Checksum)
}

func TestInsertArtifactBatch(t *testing.T) {
	client := newTestClient(t)

	a := sampleArtifact()
	b := sampleArtifact()
	b.Kind = "recipe"
	b.Version = "2.0"

	require.NoError(t, InsertArtifactBatch(client.DB, []Artifact{a, b}))

	all, err := client.Queries.ListAllArtifacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInsertArtifactBatchRejectsBadKind(t *testing.T) {
	client := newTestClient(t)

	bad := sampleArtifact()
	bad.Kind = "container"

	err := InsertArtifactBatch(client.DB, []Artifact{bad})
	assert.Error(t, err)
}

func TestCheckRunHistory(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	first := CheckRun{
		Suite:        "schema",
		Status:       "fail",
		ChecksTotal:  5,
		ChecksFailed: 2,
		Workspace:    "tests/fixtures/workspace",
		StartedAt:    time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC),
		DurationMs:   12,
	}
	second := first
	second.Status = "pass"
	second.ChecksFailed = 0
	second.StartedAt = first.StartedAt.Add(time.Hour)

	_, err := client.Queries.InsertCheckRun(ctx, first)
	require.NoError(t, err)
	_, err = client.Queries.InsertCheckRun(ctx, second)
	require.NoError(t, err)

	latest, err := client.Queries.LatestCheckRun(ctx, "schema")
	require.NoError(t, err)
	assert.Equal(t, "pass", latest.Status)
	assert.Zero(t, latest.ChecksFailed)

	runs, err := client.Queries.ListCheckRuns(ctx, "schema")
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	_, err = client.Queries.LatestCheckRun(ctx, "report")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
