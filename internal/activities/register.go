package activities

import (
	"go.temporal.io/sdk/worker"
)

// Register attaches every activity to the worker.
func (a *Activities) Register(w worker.Worker) {
	w.RegisterActivity(a.HashFile)
	w.RegisterActivity(a.ExtractPages)
	w.RegisterActivity(a.ResolveMetadata)
	w.RegisterActivity(a.UpsertPaper)
	w.RegisterActivity(a.ChunkPages)
	w.RegisterActivity(a.EmbedChunks)
	w.RegisterActivity(a.ListPaperFiles)
	w.RegisterActivity(a.ResetIndex)
}
