package usecase

import (
	"context"

	"scholar-retriever/domain"
	"scholar-retriever/port"
)

// FuseMetadataUsecase enriches ranked contexts with on the fly
// metadata. Fusion preserves order and count: every input context
// yields exactly one output record, with nil metadata fields where a
// source had no entry.
type FuseMetadataUsecase struct {
	metadata port.MetadataFetcher
}

func NewFuseMetadataUsecase(metadata port.MetadataFetcher) *FuseMetadataUsecase {
	return &FuseMetadataUsecase{
		metadata: metadata,
	}
}

// AttachAbstracts reconstructs and attaches the abstract of every
// article appearing in the contexts.
func (u *FuseMetadataUsecase) AttachAbstracts(ctx context.Context, contexts []domain.RetrievedContext) []domain.RetrievedContext {
	articleIDs := make([]string, len(contexts))
	for i, c := range contexts {
		articleIDs[i] = c.ArticleID
	}
	abstracts := u.metadata.Abstracts(ctx, articleIDs)

	out := make([]domain.RetrievedContext, len(contexts))
	for i, c := range contexts {
		c.Abstract = abstracts[c.ArticleID]
		out[i] = c
	}
	return out
}

// Execute fans out the citation, journal name and impact factor
// lookups for the ranked contexts and assembles one ParagraphMetadata
// record per context in ranking order.
func (u *FuseMetadataUsecase) Execute(ctx context.Context, ranked *domain.RerankResult) []domain.ParagraphMetadata {
	dois := make([]string, len(ranked.Contexts))
	issns := make([]string, len(ranked.Contexts))
	for i, c := range ranked.Contexts {
		dois[i] = c.DOI
		issns[i] = c.Journal
	}

	citedBy := u.metadata.CitationCounts(ctx, dois)
	journalNames := u.metadata.JournalNames(ctx, issns)
	impactFactors := u.metadata.ImpactFactors(ctx, issns)

	records := make([]domain.ParagraphMetadata, len(ranked.Contexts))
	for i, c := range ranked.Contexts {
		var score *float64
		if ranked.Scores != nil {
			s := ranked.Scores[i]
			score = &s
		}

		records[i] = domain.ParagraphMetadata{
			ArticleTitle:   c.Title,
			Section:        c.Section,
			Paragraph:      c.Text,
			JournalISSN:    optionalField(c.Journal),
			Date:           optionalField(c.Date),
			ArticleID:      c.ArticleID,
			DSDocumentID:   c.DocumentID,
			ArticleDOI:     optionalField(c.DOI),
			PubmedID:       optionalField(c.PubmedID),
			ArticleAuthors: c.Authors,
			ArticleType:    optionalField(c.ArticleType),
			ContextID:      ranked.Indices[i],
			RerankingScore: score,
			Abstract:       c.Abstract,
			JournalName:    journalNames[c.Journal],
			ImpactFactor:   impactFactors[c.Journal],
			CitedBy:        citedBy[c.DOI],
		}
	}
	return records
}

// FuseArticles enriches article level records the same way, used by the
// listing surface.
func (u *FuseMetadataUsecase) FuseArticles(ctx context.Context, contexts []domain.RetrievedContext) []domain.ArticleMetadata {
	articleIDs := make([]string, len(contexts))
	dois := make([]string, len(contexts))
	issns := make([]string, len(contexts))
	for i, c := range contexts {
		articleIDs[i] = c.ArticleID
		dois[i] = c.DOI
		issns[i] = c.Journal
	}

	abstracts := u.metadata.Abstracts(ctx, articleIDs)
	citedBy := u.metadata.CitationCounts(ctx, dois)
	journalNames := u.metadata.JournalNames(ctx, issns)
	impactFactors := u.metadata.ImpactFactors(ctx, issns)

	records := make([]domain.ArticleMetadata, len(contexts))
	for i, c := range contexts {
		record := domain.ArticleMetadataFrom(c)
		record.Abstract = abstracts[c.ArticleID]
		record.JournalName = journalNames[c.Journal]
		record.ImpactFactor = impactFactors[c.Journal]
		record.CitedBy = citedBy[c.DOI]
		records[i] = record
	}
	return records
}

func optionalField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
