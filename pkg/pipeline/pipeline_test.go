package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdeck/pkg/domain"
	"github.com/umputun/newsdeck/pkg/pipeline/mocks"
)

func TestInput_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		want    Input
		wantErr bool
	}{
		{name: "defaults count", in: Input{Company: " Acme Corp ", Relationship: "competitor"},
			want: Input{Company: "Acme Corp", Relationship: domain.RelationshipCompetitor, Count: 10}},
		{name: "alias relationship", in: Input{Company: "Acme", Relationship: "potential customer", Count: 50},
			want: Input{Company: "Acme", Relationship: domain.RelationshipPotentialCustomer, Count: 50}},
		{name: "empty company", in: Input{Company: "  ", Relationship: "competitor", Count: 5}, wantErr: true},
		{name: "bad relationship", in: Input{Company: "Acme", Relationship: "partner", Count: 5}, wantErr: true},
		{name: "missing relationship", in: Input{Company: "Acme", Count: 5}, wantErr: true},
		{name: "negative count", in: Input{Company: "Acme", Relationship: "competitor", Count: -1}, wantErr: true},
		{name: "count over max", in: Input{Company: "Acme", Relationship: "competitor", Count: 51}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func article(title string) domain.Article {
	return domain.Article{Title: title, URL: "https://example.com/" + title}
}

// stages returns mocks passing articles through, labeling all of them with theme
func stages(articles []domain.Article, theme string) (*mocks.ArticleExtractorMock, *mocks.SummarizerMock,
	*mocks.CategorizerMock, *mocks.RendererMock) {
	ex := &mocks.ArticleExtractorMock{ExtractFunc: func(context.Context, string, int) ([]domain.Article, error) {
		return articles, nil
	}}
	sm := &mocks.SummarizerMock{SummarizeFunc: func(_ context.Context, _ string, _ domain.RelationshipType,
		in []domain.Article) ([]domain.SummarizedArticle, error) {
		res := make([]domain.SummarizedArticle, 0, len(in))
		for _, a := range in {
			res = append(res, domain.SummarizedArticle{Article: a, Summary: "summary of " + a.Title})
		}
		return res, nil
	}}
	ct := &mocks.CategorizerMock{CategorizeFunc: func(_ context.Context, in []domain.SummarizedArticle) ([]domain.CategorizedArticle, error) {
		res := make([]domain.CategorizedArticle, 0, len(in))
		for _, a := range in {
			res = append(res, domain.CategorizedArticle{SummarizedArticle: a, Theme: theme})
		}
		return res, nil
	}}
	rd := &mocks.RendererMock{RenderFunc: func(domain.Report) (string, error) { return "/tmp/deck.pptx", nil }}
	return ex, sm, ct, rd
}

func TestPipeline_Run(t *testing.T) {
	ts := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	ex, sm, ct, rd := stages([]domain.Article{article("a1"), article("a2"), article("a3")}, "Financials")
	p := New(ex, sm, ct, rd, Config{Themes: []string{"Financials", "Commercials"}, OutputDir: t.TempDir(),
		Now: func() time.Time { return ts }})

	var states []State
	res, err := p.Run(context.Background(), Input{Company: "Acme Corp", Relationship: "competitor", Count: 3},
		func(s State, err error) {
			assert.NoError(t, err)
			states = append(states, s)
		})
	require.NoError(t, err)

	assert.Equal(t, []State{StateExtracting, StateSummarizing, StateCategorizing, StateRendering, StateDone}, states)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, "/tmp/deck.pptx", res.OutputPath)
	assert.Equal(t, 3, res.Extracted)
	assert.Equal(t, 3, res.Summarized)

	require.Len(t, ex.ExtractCalls(), 1)
	assert.Equal(t, "Acme Corp", ex.ExtractCalls()[0].Company)
	assert.Equal(t, 3, ex.ExtractCalls()[0].N)
	require.Len(t, sm.SummarizeCalls(), 1)
	assert.Equal(t, domain.RelationshipCompetitor, sm.SummarizeCalls()[0].Rel)

	require.Len(t, rd.RenderCalls(), 1)
	report := rd.RenderCalls()[0].Report
	assert.Equal(t, "Acme Corp", report.CompanyName)
	assert.Equal(t, ts, report.GeneratedAt)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, "Financials", report.Groups[0].Theme)
	assert.Equal(t, 3, report.ArticleCount())
}

func TestPipeline_RunTrimsExtraArticles(t *testing.T) {
	ex, sm, ct, rd := stages([]domain.Article{article("a1"), article("a2"), article("a3")}, "Financials")
	p := New(ex, sm, ct, rd, Config{})

	res, err := p.Run(context.Background(), Input{Company: "Acme", Relationship: "competitor", Count: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Extracted)
	assert.Len(t, sm.SummarizeCalls()[0].Articles, 2)
}

func TestPipeline_RunInvalidInput(t *testing.T) {
	ex, sm, ct, rd := stages(nil, "Financials")
	p := New(ex, sm, ct, rd, Config{})

	called := false
	_, err := p.Run(context.Background(), Input{Company: "", Relationship: "competitor"}, func(State, error) { called = true })
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, FailedStage(err))
	assert.False(t, called, "no transitions for rejected input")
	assert.Empty(t, ex.ExtractCalls())
}

func TestPipeline_RunStageFailure(t *testing.T) {
	tests := []struct {
		name   string
		stage  State
		target error
		setup  func(ex *mocks.ArticleExtractorMock, sm *mocks.SummarizerMock, ct *mocks.CategorizerMock, rd *mocks.RendererMock)
	}{
		{name: "source unavailable", stage: StateExtracting, target: domain.ErrSourceUnavailable,
			setup: func(ex *mocks.ArticleExtractorMock, _ *mocks.SummarizerMock, _ *mocks.CategorizerMock, _ *mocks.RendererMock) {
				ex.ExtractFunc = func(context.Context, string, int) ([]domain.Article, error) {
					return nil, domain.ErrSourceUnavailable
				}
			}},
		{name: "summarizer canceled", stage: StateSummarizing, target: context.Canceled,
			setup: func(_ *mocks.ArticleExtractorMock, sm *mocks.SummarizerMock, _ *mocks.CategorizerMock, _ *mocks.RendererMock) {
				sm.SummarizeFunc = func(context.Context, string, domain.RelationshipType, []domain.Article) ([]domain.SummarizedArticle, error) {
					return nil, context.Canceled
				}
			}},
		{name: "categorization unavailable", stage: StateCategorizing, target: domain.ErrCategorizationUnavailable,
			setup: func(_ *mocks.ArticleExtractorMock, _ *mocks.SummarizerMock, ct *mocks.CategorizerMock, _ *mocks.RendererMock) {
				ct.CategorizeFunc = func(context.Context, []domain.SummarizedArticle) ([]domain.CategorizedArticle, error) {
					return nil, domain.ErrCategorizationUnavailable
				}
			}},
		{name: "render error", stage: StateRendering, target: domain.ErrRender,
			setup: func(_ *mocks.ArticleExtractorMock, _ *mocks.SummarizerMock, _ *mocks.CategorizerMock, rd *mocks.RendererMock) {
				rd.RenderFunc = func(domain.Report) (string, error) { return "", domain.ErrRender }
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, sm, ct, rd := stages([]domain.Article{article("a1")}, "Financials")
			tt.setup(ex, sm, ct, rd)
			dir := t.TempDir()
			p := New(ex, sm, ct, rd, Config{OutputDir: dir, SaveIntermediate: true})

			var states []State
			var failErr error
			res, err := p.Run(context.Background(), Input{Company: "Acme", Relationship: "competitor", Count: 1},
				func(s State, err error) {
					states = append(states, s)
					if s == StateFailed {
						failErr = err
					}
				})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.target)

			var serr *StageError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.stage, serr.Stage)
			assert.Equal(t, tt.stage, FailedStage(err))
			assert.Contains(t, err.Error(), string(tt.stage)+" stage failed")

			require.NotEmpty(t, states)
			assert.Equal(t, StateFailed, states[len(states)-1])
			assert.Equal(t, tt.stage, states[len(states)-2])
			assert.Equal(t, err, failErr)
			assert.NoFileExists(t, filepath.Join(dir, "full_pipeline", "Acme", "news.json"))
		})
	}
}

func TestPipeline_RunRejectsGrowingSummaries(t *testing.T) {
	ex, sm, ct, rd := stages([]domain.Article{article("a1")}, "Financials")
	sm.SummarizeFunc = func(context.Context, string, domain.RelationshipType, []domain.Article) ([]domain.SummarizedArticle, error) {
		return []domain.SummarizedArticle{{Article: article("a1")}, {Article: article("a2")}}, nil
	}
	_, err := New(ex, sm, ct, rd, Config{}).Run(context.Background(), Input{Company: "Acme", Relationship: "competitor", Count: 1}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSummarizationFailure)
	assert.Equal(t, StateSummarizing, FailedStage(err))
	assert.Empty(t, ct.CategorizeCalls())
}

func TestPipeline_RunSavesIntermediate(t *testing.T) {
	dir := t.TempDir()
	ex, sm, ct, rd := stages([]domain.Article{article("a1"), article("a2")}, "Commercials")
	p := New(ex, sm, ct, rd, Config{OutputDir: dir, SaveIntermediate: true})

	_, err := p.Run(context.Background(), Input{Company: "Acme Corp", Relationship: "competitor", Count: 5}, nil)
	require.NoError(t, err)

	for _, name := range []string{"news.json", "summarized.json", "categorized.json"} {
		assert.FileExists(t, filepath.Join(dir, "full_pipeline", "Acme_Corp", name))
	}
}
