// Package workflows defines the Temporal workflows that drive paper
// ingestion and full index rebuilds.
package workflows

import (
	"path/filepath"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"paperag/internal/activities"
	"paperag/internal/metadata"
	"paperag/internal/models"
)

func defaultActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
}

// PaperIngestWorkflow takes a stored PDF through extraction, metadata
// resolution, paper upsert, chunking, and chunk embedding.
func PaperIngestWorkflow(ctx workflow.Context, in IngestInput) (IngestResult, error) {
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	logger := workflow.GetLogger(ctx)
	logger.Info("ingesting paper", "paper_id", in.PaperID, "filename", in.Filename)

	var a *activities.Activities

	var extracted activities.ExtractPagesResult
	if err := workflow.ExecuteActivity(ctx, a.ExtractPages,
		activities.ExtractPagesInput{Path: in.Path}).Get(ctx, &extracted); err != nil {
		return IngestResult{}, err
	}

	firstPage := ""
	if len(extracted.Pages) > 0 {
		firstPage = extracted.Pages[0].Text
	}

	var record metadata.Record
	if err := workflow.ExecuteActivity(ctx, a.ResolveMetadata,
		activities.ResolveMetadataInput{FirstPage: firstPage}).Get(ctx, &record); err != nil {
		return IngestResult{}, err
	}

	paper := buildPaper(in, record, firstPage)
	if err := workflow.ExecuteActivity(ctx, a.UpsertPaper,
		activities.UpsertPaperInput{Paper: paper}).Get(ctx, nil); err != nil {
		return IngestResult{}, err
	}

	var chunked activities.ChunkPagesResult
	if err := workflow.ExecuteActivity(ctx, a.ChunkPages,
		activities.ChunkPagesInput{PaperID: in.PaperID, Pages: extracted.Pages}).Get(ctx, &chunked); err != nil {
		return IngestResult{}, err
	}

	var embedded activities.EmbedChunksResult
	if err := workflow.ExecuteActivity(ctx, a.EmbedChunks,
		activities.EmbedChunksInput{Chunks: chunked.Chunks}).Get(ctx, &embedded); err != nil {
		return IngestResult{}, err
	}

	logger.Info("paper ingested", "paper_id", in.PaperID, "chunks", embedded.Count)
	return IngestResult{PaperID: in.PaperID, Title: paper.Title, Chunks: embedded.Count}, nil
}

// RebuildWorkflow wipes the index and re-ingests every stored PDF. A file
// that fails to ingest is logged and skipped so one bad PDF cannot sink the
// whole rebuild.
func RebuildWorkflow(ctx workflow.Context) (RebuildResult, error) {
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	logger := workflow.GetLogger(ctx)

	var a *activities.Activities

	if err := workflow.ExecuteActivity(ctx, a.ResetIndex).Get(ctx, nil); err != nil {
		return RebuildResult{}, err
	}

	var files activities.ListPaperFilesResult
	if err := workflow.ExecuteActivity(ctx, a.ListPaperFiles).Get(ctx, &files); err != nil {
		return RebuildResult{}, err
	}

	var res RebuildResult
	for _, path := range files.Paths {
		var paperID string
		if err := workflow.ExecuteActivity(ctx, a.HashFile,
			activities.HashFileInput{Path: path}).Get(ctx, &paperID); err != nil {
			logger.Error("hash failed during rebuild", "path", path, "error", err)
			continue
		}

		cctx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID: workflow.GetInfo(ctx).WorkflowExecution.ID + "-" + paperID,
		})
		var ing IngestResult
		err := workflow.ExecuteChildWorkflow(cctx, PaperIngestWorkflow, IngestInput{
			PaperID:  paperID,
			Path:     path,
			Filename: filepath.Base(path),
		}).Get(ctx, &ing)
		if err != nil {
			logger.Error("ingest failed during rebuild", "path", path, "error", err)
			continue
		}
		res.Papers++
		res.Chunks += ing.Chunks
	}

	logger.Info("rebuild complete", "papers", res.Papers, "chunks", res.Chunks)
	return res, nil
}

// buildPaper assembles the paper record, falling back to the filename for a
// missing title and to the first page for a missing abstract.
func buildPaper(in IngestInput, rec metadata.Record, firstPage string) models.Paper {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = in.Filename
	}
	abstract := strings.TrimSpace(rec.Abstract)
	if abstract == "" {
		abstract = fallbackAbstract(firstPage)
	}
	var year *int
	if rec.Year != 0 {
		y := rec.Year
		year = &y
	}
	return models.Paper{
		PaperID:  in.PaperID,
		Filename: in.Filename,
		Title:    title,
		Authors:  strings.Join(rec.Authors, ", "),
		Year:     year,
		DOI:      rec.DOI,
		ArxivID:  rec.ArxivID,
		Source:   rec.Source,
		Abstract: abstract,
	}
}

// fallbackAbstract takes the second paragraph of the first page (skipping
// the title block), or failing that the first 1000 runes.
func fallbackAbstract(firstPage string) string {
	parts := strings.Split(firstPage, "\n\n")
	if len(parts) > 1 {
		if p := strings.TrimSpace(parts[1]); p != "" {
			return p
		}
	}
	runes := []rune(strings.TrimSpace(firstPage))
	if len(runes) > 1000 {
		runes = runes[:1000]
	}
	return string(runes)
}
