package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholar-retriever/domain"
)

func TestFuseMetadataAttachAbstracts(t *testing.T) {
	metadata := &fakeMetadata{abstracts: map[string]*string{"a1": strPtr("An abstract.")}}
	u := NewFuseMetadataUsecase(metadata)

	contexts := u.AttachAbstracts(context.Background(), []domain.RetrievedContext{
		paragraph("d1", "a1", "text", 2.0),
		paragraph("d2", "a2", "text", 1.0),
	})

	require.NotNil(t, contexts[0].Abstract)
	assert.Equal(t, "An abstract.", *contexts[0].Abstract)
	assert.Nil(t, contexts[1].Abstract)
}

func TestFuseMetadataPreservesOrderAndCount(t *testing.T) {
	metadata := &fakeMetadata{
		citations:     map[string]*int{"10.1000/a1": intPtr(3)},
		journalNames:  map[string]*string{"0028-0836": strPtr("Nature")},
		impactFactors: map[string]*float64{"0028-0836": floatPtr(17.3)},
	}
	u := NewFuseMetadataUsecase(metadata)

	ranked := &domain.RerankResult{
		Contexts: []domain.RetrievedContext{
			paragraph("d2", "a2", "second text", 1.0),
			paragraph("d1", "a1", "first text", 2.0),
		},
		Texts:   []string{"second text", "first text"},
		Scores:  []float64{0.9, 0.1},
		Indices: []int{1, 0},
	}

	records := u.Execute(context.Background(), ranked)
	require.Len(t, records, 2)

	assert.Equal(t, "second text", records[0].Paragraph)
	assert.Equal(t, 1, records[0].ContextID)
	require.NotNil(t, records[0].RerankingScore)
	assert.Equal(t, 0.9, *records[0].RerankingScore)
	assert.Nil(t, records[0].CitedBy)

	assert.Equal(t, "first text", records[1].Paragraph)
	assert.Equal(t, 0, records[1].ContextID)
	require.NotNil(t, records[1].CitedBy)
	assert.Equal(t, 3, *records[1].CitedBy)
	require.NotNil(t, records[1].JournalName)
	assert.Equal(t, "Nature", *records[1].JournalName)
	require.NotNil(t, records[1].ImpactFactor)
	assert.Equal(t, 17.3, *records[1].ImpactFactor)
}

func TestFuseMetadataNilScoresStayNil(t *testing.T) {
	u := NewFuseMetadataUsecase(&fakeMetadata{})

	ranked := &domain.RerankResult{
		Contexts: []domain.RetrievedContext{paragraph("d1", "a1", "text", 2.0)},
		Texts:    []string{"text"},
		Scores:   nil,
		Indices:  []int{0},
	}

	records := u.Execute(context.Background(), ranked)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].RerankingScore)
	assert.Nil(t, records[0].JournalName)
	assert.Nil(t, records[0].ImpactFactor)
	assert.Nil(t, records[0].Abstract)
}

func TestFuseArticles(t *testing.T) {
	metadata := &fakeMetadata{
		abstracts: map[string]*string{"a1": strPtr("An abstract.")},
		citations: map[string]*int{"10.1000/a1": intPtr(7)},
	}
	u := NewFuseMetadataUsecase(metadata)

	records := u.FuseArticles(context.Background(), []domain.RetrievedContext{
		paragraph("d1", "a1", "text", 2.0),
	})

	require.Len(t, records, 1)
	assert.Equal(t, "Title of a1", records[0].ArticleTitle)
	require.NotNil(t, records[0].Abstract)
	assert.Equal(t, "An abstract.", *records[0].Abstract)
	require.NotNil(t, records[0].CitedBy)
	assert.Equal(t, 7, *records[0].CitedBy)
}
