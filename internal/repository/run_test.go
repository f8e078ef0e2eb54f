package repository

import (
	"context"
	"testing"

	"poe2/pickit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionSummaries(t *testing.T) {
	got := sectionSummaries([]domain.SectionResult{
		{SectionName: "CURRENCY", Results: make([]domain.ParsedItem, 3)},
		{SectionName: "BREACH"},
	})

	assert.Equal(t, []sectionSummary{{Name: "CURRENCY", Items: 3}, {Name: "BREACH", Items: 0}}, got)
}

func TestNoopRunRepository(t *testing.T) {
	repo := NewNoopRunRepository()
	assert.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, repo.SaveRun(context.Background(), &domain.ProcessedOutput{RunID: "x"}))
}

func TestSaveRunArgs(t *testing.T) {
	args, err := saveRunArgs(&domain.ProcessedOutput{
		RunID:      "run-1",
		Result:     "// doc",
		TotalItems: 3,
		Sections: []domain.SectionResult{
			{SectionName: "CURRENCY", Results: make([]domain.ParsedItem, 3)},
		},
	})
	require.NoError(t, err)
	require.Len(t, args, 4)

	assert.Equal(t, "run-1", args[0])
	assert.Equal(t, 3, args[1])
	assert.JSONEq(t, `[{"name":"CURRENCY","items":3}]`, string(args[2].([]byte)))
	assert.Equal(t, "// doc", args[3])
}

func TestSaveRunArgs_NoSections(t *testing.T) {
	args, err := saveRunArgs(&domain.ProcessedOutput{RunID: "run-2"})
	require.NoError(t, err)

	// sections is NOT NULL, so an empty run still stores an array.
	assert.JSONEq(t, `[]`, string(args[2].([]byte)))
}
