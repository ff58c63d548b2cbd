package workflows

// RebuildWorkflowID is the fixed workflow ID used for index rebuilds, so at
// most one rebuild runs at a time.
const RebuildWorkflowID = "paperag-rebuild"

type IngestInput struct {
	PaperID  string `json:"paper_id"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

type IngestResult struct {
	PaperID string `json:"paper_id"`
	Title   string `json:"title"`
	Chunks  int    `json:"chunks"`
}

type RebuildResult struct {
	Papers int `json:"papers"`
	Chunks int `json:"chunks"`
}
